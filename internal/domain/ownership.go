package domain

import "context"

// OwnershipResolver maps a WGS-84 coordinate to a land-ownership
// classification label. Implementations must be safe for concurrent use;
// normalization fans resolver calls out across a batch.
type OwnershipResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

// FixedResolver returns the same label for every coordinate. It stands in
// when no ownership service is configured, keeping the owner field populated.
type FixedResolver string

func (f FixedResolver) Resolve(_ context.Context, _, _ float64) (string, error) {
	return string(f), nil
}
