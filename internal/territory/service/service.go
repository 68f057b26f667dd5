// Package service contains the territory domain logic: region resolution,
// the unlock state machine, overview projections, and coordinate queries.
// Stores are consumed through the interfaces below so the same services run
// against PostGIS in production and in-memory stores in tests.
package service

import (
	"context"

	"territory/internal/territory/models"
)

// RegionStore is the read side of the region catalog, including the
// point-in-polygon containment query.
type RegionStore interface {
	FindByID(ctx context.Context, id string) (*models.Region, error)
	FindByCode(ctx context.Context, code string) (*models.Region, error)
	FindByName(ctx context.Context, name string) (*models.Region, error)
	FindContaining(ctx context.Context, lon, lat float64) (*models.Region, error)
	ListAll(ctx context.Context) ([]*models.Region, error)
}

// UnlockStore persists unlock records, one per (couple, region) pair.
type UnlockStore interface {
	Find(ctx context.Context, coupleID, regionID string) (*models.UnlockRecord, error)
	Upsert(ctx context.Context, rec *models.UnlockRecord) (*models.UnlockRecord, error)
	ListUnlocked(ctx context.Context, coupleID string) ([]*models.UnlockRecord, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OverviewCache fronts overview reads. Implementations must tolerate being
// nil-equivalent: correctness never depends on a hit.
type OverviewCache interface {
	Get(ctx context.Context, coupleID string) (*models.Overview, bool)
	Set(ctx context.Context, coupleID string, ov *models.Overview)
	Invalidate(ctx context.Context, coupleID string) error
}
