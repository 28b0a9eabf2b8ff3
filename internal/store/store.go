// Package store provides the persistence collaborators for normalized burn
// records: an in-memory store used for development and tests, and a Postgres
// store for real deployments. Both evaluate FilterCriteria with identical
// semantics.
package store

import (
	"context"

	"github.com/firewatch/burn-data-service/internal/domain"
)

// FireStore persists and queries general burn records. IDs are assigned by
// the store on persist; callers never supply them. Implementations must
// tolerate concurrent bulk writes and concurrent reads.
type FireStore interface {
	PersistFire(ctx context.Context, fire domain.Fire) (domain.Fire, error)
	PersistFires(ctx context.Context, fires []domain.Fire) error
	FindAllFires(ctx context.Context) ([]domain.Fire, error)
	FindFires(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Fire, error)
}

// EscapeStore persists and queries escaped-fire records.
type EscapeStore interface {
	PersistEscape(ctx context.Context, esc domain.EscapedFire) (domain.EscapedFire, error)
	PersistEscapes(ctx context.Context, escapes []domain.EscapedFire) error
	FindAllEscapes(ctx context.Context) ([]domain.EscapedFire, error)
	FindEscapes(ctx context.Context, criteria domain.FilterCriteria) ([]domain.EscapedFire, error)
}

// Store is the full storage collaborator consumed by the service.
type Store interface {
	FireStore
	EscapeStore
}
