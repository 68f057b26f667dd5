// Package metrics holds the territory feature's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts territory operations. A nil *Metrics is valid and records
// nothing, so tests don't need a registry.
type Metrics struct {
	unlocksTotal      prometheus.Counter
	batchUnlocksTotal prometheus.Counter
	lookupsTotal      *prometheus.CounterVec
	checksTotal       *prometheus.CounterVec
	overviewCache     *prometheus.CounterVec
}

// New registers the territory metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the territory metrics on reg; tests pass a private
// registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		unlocksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "territory_unlocks_total",
			Help: "Total unlock operations applied, including idempotent repeats.",
		}),
		batchUnlocksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "territory_batch_unlock_regions_total",
			Help: "Total regions unlocked through batch requests.",
		}),
		lookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "territory_lookups_total",
			Help: "Coordinate lookups by coverage outcome.",
		}, []string{"outcome"}),
		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "territory_checks_total",
			Help: "Ownership checks by reason.",
		}, []string{"reason"}),
		overviewCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "territory_overview_cache_total",
			Help: "Overview cache hits and misses.",
		}, []string{"result"}),
	}
}

func (m *Metrics) UnlockApplied() {
	if m == nil {
		return
	}
	m.unlocksTotal.Inc()
}

func (m *Metrics) BatchUnlockApplied(regions int) {
	if m == nil {
		return
	}
	m.unlocksTotal.Inc()
	m.batchUnlocksTotal.Add(float64(regions))
}

func (m *Metrics) LookupServed(inCoverage bool) {
	if m == nil {
		return
	}
	outcome := "out_of_coverage"
	if inCoverage {
		outcome = "in_coverage"
	}
	m.lookupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CheckServed(reason string) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) OverviewCacheHit() {
	if m == nil {
		return
	}
	m.overviewCache.WithLabelValues("hit").Inc()
}

func (m *Metrics) OverviewCacheMiss() {
	if m == nil {
		return
	}
	m.overviewCache.WithLabelValues("miss").Inc()
}
