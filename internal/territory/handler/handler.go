// Package handler exposes the territory API over HTTP. Handlers stay thin:
// decode, delegate to services, translate coded errors.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"territory/internal/platform/metrics"
	"territory/internal/platform/middleware"
	"territory/internal/territory/geo"
	"territory/internal/territory/models"
	"territory/internal/transport/http/shared"
	dErrors "territory/pkg/domainerrors"
	"territory/pkg/requestcontext"
)

// UnlockService is the unlock engine surface the handler consumes.
type UnlockService interface {
	Unlock(ctx context.Context, coupleID string, ref models.RegionRef, meta models.UnlockMetadata) (*models.UnlockOutcome, error)
	UnlockMany(ctx context.Context, coupleID string, names []string, meta models.UnlockMetadata) ([]*models.UnlockOutcome, error)
	UnlockedRegions(ctx context.Context, coupleID string) ([]*models.Region, error)
}

// OverviewService builds the grouped lock-state projection.
type OverviewService interface {
	Build(ctx context.Context, coupleID string) (*models.Overview, error)
}

// QueryService answers coordinate questions.
type QueryService interface {
	Lookup(ctx context.Context, lon, lat float64) (*models.LookupResult, error)
	Check(ctx context.Context, coupleID string, lon, lat float64) (*models.CheckResult, error)
}

// TicketGate guards unlocks behind the couple's ticket balance. Restore
// undoes a consumption after an unlock failed before applying; it is
// best-effort and may be a no-op.
type TicketGate interface {
	Consume(ctx context.Context, coupleID string) (bool, error)
	Restore(ctx context.Context, coupleID string)
}

// Handler wires the territory routes.
type Handler struct {
	logger   *slog.Logger
	unlocks  UnlockService
	overview OverviewService
	query    QueryService
	tickets  TicketGate // nil disables ticket enforcement
	resolver middleware.CoupleResolver
	metrics  *metrics.Metrics
	timeout  time.Duration
}

func New(unlocks UnlockService, overview OverviewService, query QueryService, tickets TicketGate, resolver middleware.CoupleResolver, logger *slog.Logger, m *metrics.Metrics, timeout time.Duration) *Handler {
	return &Handler{
		logger:   logger,
		unlocks:  unlocks,
		overview: overview,
		query:    query,
		tickets:  tickets,
		resolver: resolver,
		metrics:  m,
		timeout:  timeout,
	}
}

// Register mounts the territory routes. Lookup stays public; everything else
// requires a resolved couple identity.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(h.timeout))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))

	router.Get("/api/regions/lookup", h.handleLookup)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireCouple(h.resolver, h.logger))
		authed.Post("/api/regions/unlock", h.handleUnlock)
		authed.Post("/api/regions/unlock/batch", h.handleUnlockBatch)
		authed.Get("/api/regions/search", h.handleSearch)
		authed.Get("/api/regions/check", h.handleCheck)
		authed.Get("/api/regions/status", h.handleStatus)
	})

	r.Mount("/", router)
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	coupleID := requestcontext.CoupleID(ctx)

	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}

	if !h.consumeTicket(w, r, coupleID) {
		return
	}

	outcome, err := h.unlocks.Unlock(ctx, coupleID, req.ref(), req.metadata())
	if err != nil {
		h.refundTicket(ctx, coupleID, err)
		h.writeServiceError(w, r, "unlock failed", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleUnlockBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	coupleID := requestcontext.CoupleID(ctx)

	var req batchUnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}

	if !h.consumeTicket(w, r, coupleID) {
		return
	}

	outcomes, err := h.unlocks.UnlockMany(ctx, coupleID, req.names(), req.metadata())
	if err != nil {
		h.refundTicket(ctx, coupleID, err)
		h.writeServiceError(w, r, "batch unlock failed", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, batchUnlockResponse{
		Success: true,
		Count:   len(outcomes),
		Data:    outcomes,
	})
}

// handleSearch serves the couple's unlocked territory either as the grouped
// overview (format=list, the default) or as a GeoJSON FeatureCollection
// (format=feature).
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	coupleID := requestcontext.CoupleID(ctx)

	if format := r.URL.Query().Get("format"); format == "feature" {
		regions, err := h.unlocks.UnlockedRegions(ctx, coupleID)
		if err != nil {
			h.writeServiceError(w, r, "feature export failed", err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, geo.FeatureCollection(regions))
		return
	}

	overview, err := h.overview.Build(ctx, coupleID)
	if err != nil {
		h.writeServiceError(w, r, "overview build failed", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lon, lat, err := parseLonLat(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.query.Check(ctx, requestcontext.CoupleID(ctx), lon, lat)
	if err != nil {
		h.writeServiceError(w, r, "check failed", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	lon, lat, err := parseLonLat(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.query.Lookup(r.Context(), lon, lat)
	if err != nil {
		h.writeServiceError(w, r, "lookup failed", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

// handleStatus echoes the resolved couple id for debugging token issues.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"coupleId": requestcontext.CoupleID(r.Context()),
	})
}

// consumeTicket enforces the ticket gate when configured. Writes the error
// response and returns false when the unlock must not proceed.
func (h *Handler) consumeTicket(w http.ResponseWriter, r *http.Request, coupleID string) bool {
	if h.tickets == nil {
		return true
	}
	ok, err := h.tickets.Consume(r.Context(), coupleID)
	if err != nil {
		h.writeServiceError(w, r, "ticket check failed", err)
		return false
	}
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "no unlock tickets available"))
		return false
	}
	return true
}

// refundTicket returns a consumed ticket when the unlock failed for a
// client-caused reason, so a bad region name does not burn the balance.
// Internal failures keep the ticket spent: the unlock may have applied.
func (h *Handler) refundTicket(ctx context.Context, coupleID string, err error) {
	if h.tickets == nil {
		return
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalidRequest, dErrors.CodeRegionNotFound:
		h.tickets.Restore(ctx, coupleID)
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	shared.WriteError(w, err)
}

func parseLonLat(r *http.Request) (lon, lat float64, err error) {
	lon, err = parseFloatParam(r, "lon")
	if err != nil {
		return 0, 0, err
	}
	lat, err = parseFloatParam(r, "lat")
	if err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, dErrors.Newf(dErrors.CodeInvalidRequest, "query parameter %q is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeInvalidRequest, "query parameter %q must be a number", name)
	}
	return v, nil
}
