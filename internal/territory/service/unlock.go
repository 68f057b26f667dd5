package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	territorymetrics "territory/internal/territory/metrics"
	"territory/internal/territory/models"
	dErrors "territory/pkg/domainerrors"
	"territory/pkg/platform/sentinel"
	"territory/pkg/requestcontext"
)

// UnlockEngine orchestrates unlock requests: resolve the region, apply the
// idempotent state transition, persist, and invalidate the couple's cached
// overview inside the same commit path.
type UnlockEngine struct {
	resolver *RegionResolver
	records  UnlockStore
	regions  RegionStore
	cache    OverviewCache
	logger   *slog.Logger
	metrics  *territorymetrics.Metrics
}

func NewUnlockEngine(resolver *RegionResolver, records UnlockStore, regions RegionStore, cache OverviewCache, logger *slog.Logger, metrics *territorymetrics.Metrics) *UnlockEngine {
	return &UnlockEngine{
		resolver: resolver,
		records:  records,
		regions:  regions,
		cache:    cache,
		logger:   logger,
		metrics:  metrics,
	}
}

// Unlock applies one unlock. Repeating an unlock is a no-op that preserves
// the original timestamp; metadata merges under the non-empty-overwrite
// rule so callers can attach selectedBy retroactively.
func (e *UnlockEngine) Unlock(ctx context.Context, coupleID string, ref models.RegionRef, meta models.UnlockMetadata) (*models.UnlockOutcome, error) {
	coupleID, err := requireCoupleID(coupleID)
	if err != nil {
		return nil, err
	}

	region, err := e.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	stored, err := e.apply(ctx, coupleID, region, meta)
	if err != nil {
		return nil, err
	}

	e.invalidateOverview(ctx, coupleID)
	e.metrics.UnlockApplied()
	e.logger.InfoContext(ctx, "region unlocked",
		"couple_id", coupleID,
		"region_id", region.ID,
		"sig_cd", region.SigCd,
		"request_id", requestcontext.RequestID(ctx),
	)
	return models.Outcome(stored, region), nil
}

// UnlockMany unlocks a list of district names atomically. Every name is
// resolved by exact match before the first write; the store transaction
// rolls back already-applied unlocks when a later step fails.
func (e *UnlockEngine) UnlockMany(ctx context.Context, coupleID string, names []string, meta models.UnlockMetadata) ([]*models.UnlockOutcome, error) {
	coupleID, err := requireCoupleID(coupleID)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "batch must name at least one region")
	}

	regions, err := e.resolver.ResolveNames(ctx, names)
	if err != nil {
		return nil, err
	}

	outcomes := make([]*models.UnlockOutcome, 0, len(regions))
	err = e.records.RunInTx(ctx, func(txCtx context.Context) error {
		for _, region := range regions {
			stored, err := e.apply(txCtx, coupleID, region, meta)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, models.Outcome(stored, region))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.invalidateOverview(ctx, coupleID)
	e.metrics.BatchUnlockApplied(len(outcomes))
	e.logger.InfoContext(ctx, "batch unlock applied",
		"couple_id", coupleID,
		"regions", len(outcomes),
		"request_id", requestcontext.RequestID(ctx),
	)
	return outcomes, nil
}

// apply runs the read-then-conditionally-write transition for one pair. The
// store upsert enforces convergence when two requests race on the same pair.
func (e *UnlockEngine) apply(ctx context.Context, coupleID string, region *models.Region, meta models.UnlockMetadata) (*models.UnlockRecord, error) {
	now := requestcontext.Now(ctx)

	rec := &models.UnlockRecord{
		CoupleID:   coupleID,
		RegionID:   region.ID,
		Locked:     false,
		UnlockedAt: &now,
		UnlockType: strings.TrimSpace(meta.UnlockType),
		SelectedBy: strings.TrimSpace(meta.SelectedBy),
	}

	existing, err := e.records.Find(ctx, coupleID, region.ID)
	switch {
	case err == nil:
		if !existing.Locked {
			// Already unlocked: the stored timestamp wins.
			rec.UnlockedAt = existing.UnlockedAt
		}
	case errors.Is(err, sentinel.ErrNotFound):
		if rec.UnlockType == "" {
			rec.UnlockType = models.UnlockTypeInitial
		}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unlock record lookup failed")
	}

	stored, err := e.records.Upsert(ctx, rec)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unlock record upsert failed")
	}
	return stored, nil
}

// UnlockedRegions returns the couple's unlocked regions in unlock order,
// feeding the feature export.
func (e *UnlockEngine) UnlockedRegions(ctx context.Context, coupleID string) ([]*models.Region, error) {
	coupleID, err := requireCoupleID(coupleID)
	if err != nil {
		return nil, err
	}
	records, err := e.records.ListUnlocked(ctx, coupleID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unlocked record listing failed")
	}

	regions := make([]*models.Region, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			region, err := e.regions.FindByID(gctx, rec.RegionID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "region lookup failed")
			}
			regions[i] = region
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return regions, nil
}

func (e *UnlockEngine) invalidateOverview(ctx context.Context, coupleID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx, coupleID); err != nil {
		// Stale cache never violates unlock invariants; log and move on.
		e.logger.WarnContext(ctx, "overview cache invalidation failed",
			"couple_id", coupleID, "error", err.Error())
	}
}

func requireCoupleID(coupleID string) (string, error) {
	trimmed := strings.TrimSpace(coupleID)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "couple id must not be blank")
	}
	return trimmed, nil
}
