package store

import (
	"context"
	"sync"

	"github.com/firewatch/burn-data-service/internal/domain"
)

// Memory is a mutex-guarded in-process Store. It is the default driver for
// development and the fixture store for tests. IDs are assigned from a
// per-dataset monotonic counter, so re-ingesting the same file produces
// duplicates with fresh IDs, matching the service's no-dedup contract.
type Memory struct {
	mu          sync.RWMutex
	fires       []domain.Fire
	escapes     []domain.EscapedFire
	nextFireID   int
	nextEscapeID int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextFireID: 1, nextEscapeID: 1}
}

// CheckReadiness always succeeds; the in-process store has no dependencies.
func (m *Memory) CheckReadiness(context.Context) error { return nil }

func (m *Memory) PersistFire(_ context.Context, fire domain.Fire) (domain.Fire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fire.ID = m.nextFireID
	m.nextFireID++
	m.fires = append(m.fires, fire)
	return fire, nil
}

func (m *Memory) PersistFires(_ context.Context, fires []domain.Fire) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, fire := range fires {
		fire.ID = m.nextFireID
		m.nextFireID++
		m.fires = append(m.fires, fire)
	}
	return nil
}

func (m *Memory) FindAllFires(_ context.Context) ([]domain.Fire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Fire, len(m.fires))
	copy(out, m.fires)
	return out, nil
}

func (m *Memory) FindFires(_ context.Context, criteria domain.FilterCriteria) ([]domain.Fire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Fire, 0)
	for _, fire := range m.fires {
		if criteria.MatchesFire(fire) {
			out = append(out, fire)
		}
	}
	return out, nil
}

func (m *Memory) PersistEscape(_ context.Context, esc domain.EscapedFire) (domain.EscapedFire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	esc.ID = m.nextEscapeID
	m.nextEscapeID++
	m.escapes = append(m.escapes, esc)
	return esc, nil
}

func (m *Memory) PersistEscapes(_ context.Context, escapes []domain.EscapedFire) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, esc := range escapes {
		esc.ID = m.nextEscapeID
		m.nextEscapeID++
		m.escapes = append(m.escapes, esc)
	}
	return nil
}

func (m *Memory) FindAllEscapes(_ context.Context) ([]domain.EscapedFire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.EscapedFire, len(m.escapes))
	copy(out, m.escapes)
	return out, nil
}

func (m *Memory) FindEscapes(_ context.Context, criteria domain.FilterCriteria) ([]domain.EscapedFire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.EscapedFire, 0)
	for _, esc := range m.escapes {
		if criteria.MatchesEscape(esc) {
			out = append(out, esc)
		}
	}
	return out, nil
}
