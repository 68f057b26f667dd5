package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"territory/internal/territory/models"
	dErrors "territory/pkg/domainerrors"
	"territory/pkg/platform/sentinel"
)

// RegionResolver turns a RegionRef into a canonical region. Precedence when
// multiple fields are populated: id, administrative code, free-text name,
// coordinate. Only the name strategy has fallbacks.
type RegionResolver struct {
	regions RegionStore
}

func NewRegionResolver(regions RegionStore) *RegionResolver {
	return &RegionResolver{regions: regions}
}

// Resolve resolves ref or fails with REGION_NOT_FOUND / INVALID_REQUEST.
func (r *RegionResolver) Resolve(ctx context.Context, ref models.RegionRef) (*models.Region, error) {
	switch ref.Kind() {
	case models.RefByID:
		return r.byLookup(ctx, func(ctx context.Context) (*models.Region, error) {
			return r.regions.FindByID(ctx, strings.TrimSpace(ref.ID))
		}, "region id "+strings.TrimSpace(ref.ID))
	case models.RefByCode:
		return r.byLookup(ctx, func(ctx context.Context) (*models.Region, error) {
			return r.regions.FindByCode(ctx, strings.TrimSpace(ref.Code))
		}, "administrative code "+strings.TrimSpace(ref.Code))
	case models.RefByName:
		return r.byName(ctx, strings.TrimSpace(ref.Name))
	case models.RefByCoordinate:
		return r.ByCoordinate(ctx, ref.Lon, ref.Lat)
	default:
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "request carries no region identifier")
	}
}

func (r *RegionResolver) byLookup(ctx context.Context, find func(context.Context) (*models.Region, error), what string) (*models.Region, error) {
	region, err := find(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeRegionNotFound, "no region matches %s", what)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "region lookup failed")
	}
	return region, nil
}

// byName tries an exact district-name match, then the substring after the
// last space ("Seoul Gangnam-gu" matches the "Gangnam-gu" district), then a
// purely numeric remainder as an administrative code.
func (r *RegionResolver) byName(ctx context.Context, name string) (*models.Region, error) {
	region, err := r.regions.FindByName(ctx, name)
	if err == nil {
		return region, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "region lookup failed")
	}

	candidate := name
	if idx := strings.LastIndex(candidate, " "); idx >= 0 {
		candidate = candidate[idx+1:]
		region, err = r.regions.FindByName(ctx, candidate)
		if err == nil {
			return region, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "region lookup failed")
		}
	}

	if isNumeric(candidate) {
		region, err = r.regions.FindByCode(ctx, candidate)
		if err == nil {
			return region, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "region lookup failed")
		}
	}
	return nil, dErrors.Newf(dErrors.CodeRegionNotFound, "no region matches name %q", name)
}

// ByCoordinate validates the coordinate and runs the containment query.
// Validation failures surface before any store access.
func (r *RegionResolver) ByCoordinate(ctx context.Context, lon, lat float64) (*models.Region, error) {
	if err := ValidateLonLat(lon, lat); err != nil {
		return nil, err
	}
	region, err := r.regions.FindContaining(ctx, lon, lat)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeRegionNotFound, "coordinate is out of coverage")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "containment query failed")
	}
	return region, nil
}

// ResolveNames resolves a batch by exact district name only; no whitespace
// or numeric fallback applies. The first unresolvable name aborts the batch,
// naming the offending entry.
func (r *RegionResolver) ResolveNames(ctx context.Context, names []string) ([]*models.Region, error) {
	regions := make([]*models.Region, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, dErrors.New(dErrors.CodeInvalidRequest, "region name must not be blank")
		}
		region, err := r.regions.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Newf(dErrors.CodeRegionNotFound, "no region matches name %q", name)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "region lookup failed")
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// ValidateLonLat rejects non-finite and out-of-range WGS84 coordinates.
func ValidateLonLat(lon, lat float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return dErrors.New(dErrors.CodeInvalidRequest, "coordinates must be finite numbers")
	}
	if lon < -180 || lon > 180 {
		return dErrors.Newf(dErrors.CodeInvalidRequest, "longitude %v out of range [-180, 180]", lon)
	}
	if lat < -90 || lat > 90 {
		return dErrors.Newf(dErrors.CodeInvalidRequest, "latitude %v out of range [-90, 90]", lat)
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
