package service

import (
	"context"
	"errors"

	territorymetrics "territory/internal/territory/metrics"
	"territory/internal/territory/models"
	dErrors "territory/pkg/domainerrors"
	"territory/pkg/platform/sentinel"
)

// TerritoryQuery is the read-only façade answering coordinate questions:
// which region contains this point, and does this couple own it.
type TerritoryQuery struct {
	resolver *RegionResolver
	records  UnlockStore
	metrics  *territorymetrics.Metrics
}

func NewTerritoryQuery(resolver *RegionResolver, records UnlockStore, metrics *territorymetrics.Metrics) *TerritoryQuery {
	return &TerritoryQuery{resolver: resolver, records: records, metrics: metrics}
}

// Lookup resolves the coordinate to a region summary. Out of coverage is a
// successful result, never an error.
func (q *TerritoryQuery) Lookup(ctx context.Context, lon, lat float64) (*models.LookupResult, error) {
	region, err := q.resolver.ByCoordinate(ctx, lon, lat)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeRegionNotFound) {
			q.metrics.LookupServed(false)
			return &models.LookupResult{InCoverage: false}, nil
		}
		return nil, err
	}
	summary := region.Summary()
	q.metrics.LookupServed(true)
	return &models.LookupResult{InCoverage: true, Region: &summary}, nil
}

// Check reports whether the coordinate falls inside a region the couple has
// unlocked. A missing unlock record counts as locked.
func (q *TerritoryQuery) Check(ctx context.Context, coupleID string, lon, lat float64) (*models.CheckResult, error) {
	coupleID, err := requireCoupleID(coupleID)
	if err != nil {
		return nil, err
	}

	region, err := q.resolver.ByCoordinate(ctx, lon, lat)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeRegionNotFound) {
			q.metrics.CheckServed(string(models.ReasonOutOfCoverage))
			return &models.CheckResult{OK: false, Reason: models.ReasonOutOfCoverage}, nil
		}
		return nil, err
	}

	unlocked := false
	rec, err := q.records.Find(ctx, coupleID, region.ID)
	switch {
	case err == nil:
		unlocked = !rec.Locked
	case errors.Is(err, sentinel.ErrNotFound):
		// No record yet: locked.
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unlock record lookup failed")
	}

	reason := models.ReasonLockedRegion
	if unlocked {
		reason = models.ReasonUnlockedRegion
	}
	summary := region.Summary()
	q.metrics.CheckServed(string(reason))
	return &models.CheckResult{OK: unlocked, Reason: reason, Region: &summary}, nil
}
