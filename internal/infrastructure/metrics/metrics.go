// Package metrics exposes Prometheus collectors for the grid gateway.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gridsearch/internal/domain/datasource"
	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/infrastructure/cache"
)

const namespace = "gridsearch"

// Metrics groups the collectors. Build one per registry.
type Metrics struct {
	searchDuration *prometheus.HistogramVec
	filtersDropped *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	invalidations  *prometheus.CounterVec
	factory        promauto.Factory
}

var (
	_ datasource.Recorder = (*Metrics)(nil)
	_ grid.DropObserver   = (*Metrics)(nil)
)

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		factory: factory,
		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_request_duration_seconds",
			Help:      "Duration of search backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"technology", "outcome"}),
		filtersDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_conditions_dropped_total",
			Help:      "Native filter states discarded during translation",
		}, []string{"reason"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of gateway HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptor_cache_invalidations_total",
			Help:      "Technologies evicted from the descriptor cache on request",
		}, []string{"technology"}),
	}
}

// ObserveSearch records one completed backend search.
func (m *Metrics) ObserveSearch(tech search.Technology, outcome string, elapsed time.Duration) {
	m.searchDuration.WithLabelValues(technologyLabel(tech), outcome).Observe(elapsed.Seconds())
}

// FilterDropped counts one discarded filter state.
func (m *Metrics) FilterDropped(reason string) {
	m.filtersDropped.WithLabelValues(reason).Inc()
}

// ObserveHTTP records one gateway request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// DescriptorsInvalidated counts one evicted technology. It is a cache.InvalidationListener.
func (m *Metrics) DescriptorsInvalidated(tech search.Technology) {
	m.invalidations.WithLabelValues(technologyLabel(tech)).Inc()
}

// RegisterDescriptorCache exposes the cache's hit, miss and size figures.
func (m *Metrics) RegisterDescriptorCache(stats func() cache.CacheStats) {
	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "descriptor_cache_hits_total",
		Help:      "Descriptor lookups served from memory",
	}, func() float64 { return float64(stats().Hits) })
	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "descriptor_cache_misses_total",
		Help:      "Descriptor lookups that went to the backend",
	}, func() float64 { return float64(stats().Misses) })
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "descriptor_cache_entries",
		Help:      "Technologies currently cached",
	}, func() float64 { return float64(stats().Entries) })
}

func technologyLabel(t search.Technology) string {
	if t == search.TechnologyNone {
		return "default"
	}
	return string(t)
}
