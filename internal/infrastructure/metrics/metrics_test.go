package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsearch/internal/domain/datasource"
	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/infrastructure/cache"
)

func TestMetrics_SearchAndDrops(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSearch(search.JPA, datasource.OutcomeSuccess, 120*time.Millisecond)
	m.ObserveSearch(search.TechnologyNone, datasource.OutcomeError, time.Second)
	m.FilterDropped(grid.DropUnsupportedKind)
	m.FilterDropped(grid.DropUnsupportedKind)
	m.FilterDropped(grid.DropEmptySet)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.filtersDropped.WithLabelValues(grid.DropUnsupportedKind)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.filtersDropped.WithLabelValues(grid.DropEmptySet)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.searchDuration))

	expected := `
# HELP gridsearch_filter_conditions_dropped_total Native filter states discarded during translation
# TYPE gridsearch_filter_conditions_dropped_total counter
gridsearch_filter_conditions_dropped_total{reason="empty_set"} 1
gridsearch_filter_conditions_dropped_total{reason="unsupported_kind"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gridsearch_filter_conditions_dropped_total"))
}

func TestMetrics_DescriptorCacheFuncs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RegisterDescriptorCache(func() cache.CacheStats {
		return cache.CacheStats{Entries: 2, Hits: 7, Misses: 2}
	})

	expected := `
# HELP gridsearch_descriptor_cache_hits_total Descriptor lookups served from memory
# TYPE gridsearch_descriptor_cache_hits_total counter
gridsearch_descriptor_cache_hits_total 7
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gridsearch_descriptor_cache_hits_total"))
}

func TestMetrics_HTTPUnmatchedRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("GET", "", 404, time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/grid/rows", 200, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.httpDuration))
}

func TestMetrics_DescriptorsInvalidated(t *testing.T) {
	m := New(prometheus.NewRegistry())

	var listener cache.InvalidationListener = m.DescriptorsInvalidated
	listener(search.JPA)
	listener(search.JPA)
	listener(search.TechnologyNone)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invalidations.WithLabelValues("jpa")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations.WithLabelValues("default")))
}
