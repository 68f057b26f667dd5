package service

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"territory/internal/territory/geo"
	territorymetrics "territory/internal/territory/metrics"
	"territory/internal/territory/models"
	dErrors "territory/pkg/domainerrors"
)

// OverviewBuilder projects the full catalog plus one couple's unlock set
// into the grouped-by-parent overview. The projection is recomputed on every
// read; the cache in front is purely an optimization.
type OverviewBuilder struct {
	regions RegionStore
	records UnlockStore
	cache   OverviewCache
	metrics *territorymetrics.Metrics
}

func NewOverviewBuilder(regions RegionStore, records UnlockStore, cache OverviewCache, metrics *territorymetrics.Metrics) *OverviewBuilder {
	return &OverviewBuilder{regions: regions, records: records, cache: cache, metrics: metrics}
}

// Build computes the overview for one couple.
func (b *OverviewBuilder) Build(ctx context.Context, coupleID string) (*models.Overview, error) {
	coupleID, err := requireCoupleID(coupleID)
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		if ov, ok := b.cache.Get(ctx, coupleID); ok {
			b.metrics.OverviewCacheHit()
			return ov, nil
		}
		b.metrics.OverviewCacheMiss()
	}

	var catalog []*models.Region
	var unlocked []*models.UnlockRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = b.regions.ListAll(gctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "region catalog listing failed")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		unlocked, err = b.records.ListUnlocked(gctx, coupleID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "unlocked record listing failed")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov := project(catalog, unlocked)
	if b.cache != nil {
		b.cache.Set(ctx, coupleID, ov)
	}
	return ov, nil
}

// project is the pure grouping step. Group keys compare by exact string:
// differently cased or padded parent names form separate groups, mirroring
// the source dataset's normalization.
func project(catalog []*models.Region, unlocked []*models.UnlockRecord) *models.Overview {
	unlockedIDs := make(map[string]struct{}, len(unlocked))
	for _, rec := range unlocked {
		unlockedIDs[rec.RegionID] = struct{}{}
	}

	groups := make(map[string][]models.DistrictSummary)
	for _, region := range catalog {
		_, isUnlocked := unlockedIDs[region.ID]
		groups[region.SiDo] = append(groups[region.SiDo], districtSummary(region, !isUnlocked))
	}

	order := make([]string, 0, len(groups))
	for city := range groups {
		order = append(order, city)
	}
	sort.Strings(order)

	cities := make([]models.CitySummary, 0, len(order))
	for _, city := range order {
		districts := groups[city]
		unlockedCount := 0
		for _, d := range districts {
			if !d.Locked {
				unlockedCount++
			}
		}
		cities = append(cities, models.CitySummary{
			CityName:          city,
			TotalDistricts:    len(districts),
			LockedDistricts:   len(districts) - unlockedCount,
			UnlockedDistricts: unlockedCount,
			Districts:         districts,
		})
	}

	return &models.Overview{
		Success: true,
		Data: models.OverviewData{
			TotalKeys: len(unlocked),
			Cities:    cities,
		},
	}
}

func districtSummary(region *models.Region, locked bool) models.DistrictSummary {
	d := models.DistrictSummary{
		ID:          region.SigCd,
		Name:        region.GuSi,
		Locked:      locked,
		Description: describe(region),
	}
	if centroid, ok := geo.Centroid(region.Geom); ok {
		lat, lng := centroid.Lat, centroid.Lon
		d.Lat, d.Lng = &lat, &lng
	}
	return d
}

// describe joins parent and district name, dropping whichever is empty.
func describe(region *models.Region) string {
	parts := make([]string, 0, 2)
	if region.SiDo != "" {
		parts = append(parts, region.SiDo)
	}
	if region.GuSi != "" {
		parts = append(parts, region.GuSi)
	}
	return strings.Join(parts, " ")
}
