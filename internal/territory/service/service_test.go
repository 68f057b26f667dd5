package service

import (
	"context"
	"io"
	"log/slog"

	"territory/internal/territory/models"
	regionstore "territory/internal/territory/store/region"
	unlockstore "territory/internal/territory/store/unlock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ring(minLon, minLat, maxLon, maxLat float64) models.Ring {
	return models.Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
		{Lon: minLon, Lat: minLat},
	}
}

func fixtureRegion(id, sigCd, guSi, siDo string, r models.Ring) *models.Region {
	return &models.Region{
		ID:    id,
		SigCd: sigCd,
		GuSi:  guSi,
		SiDo:  siDo,
		Geom: &models.Geometry{
			Type:     "Polygon",
			Polygons: []models.Polygon{{Rings: []models.Ring{r}}},
		},
	}
}

// fixtureCatalog seeds three districts: two under Seoul, one under Jeonnam.
func fixtureCatalog() *regionstore.InMemory {
	return regionstore.NewInMemory(
		fixtureRegion("1", "11680", "Gangnam-gu", "Seoul", ring(127.0, 37.4, 127.1, 37.6)),
		fixtureRegion("2", "11440", "Mapo-gu", "Seoul", ring(126.8, 37.5, 127.0, 37.6)),
		fixtureRegion("3", "46810", "Jangseong-gun", "Jeonnam", ring(126.6, 35.2, 126.9, 35.4)),
	)
}

// fakeCache records overview cache traffic for assertion.
type fakeCache struct {
	stored      map[string]*models.Overview
	sets        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]*models.Overview)}
}

func (c *fakeCache) Get(_ context.Context, coupleID string) (*models.Overview, bool) {
	ov, ok := c.stored[coupleID]
	return ov, ok
}

func (c *fakeCache) Set(_ context.Context, coupleID string, ov *models.Overview) {
	c.stored[coupleID] = ov
	c.sets++
}

func (c *fakeCache) Invalidate(_ context.Context, coupleID string) error {
	c.invalidated = append(c.invalidated, coupleID)
	delete(c.stored, coupleID)
	return nil
}

// countingRegions wraps a RegionStore and counts containment queries.
type countingRegions struct {
	RegionStore
	containingCalls int
}

func (c *countingRegions) FindContaining(ctx context.Context, lon, lat float64) (*models.Region, error) {
	c.containingCalls++
	return c.RegionStore.FindContaining(ctx, lon, lat)
}

func newEngine(regions RegionStore, records *unlockstore.InMemory, cache OverviewCache) *UnlockEngine {
	return NewUnlockEngine(NewRegionResolver(regions), records, regions, cache, discardLogger(), nil)
}
