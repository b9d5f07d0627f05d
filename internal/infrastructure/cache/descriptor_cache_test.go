package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsearch/internal/domain/search"
	"gridsearch/pkg/logger"
)

type countingLoader struct {
	calls map[search.Technology]int
	descs []search.FieldDescriptor
	err   error
}

func (l *countingLoader) FetchFieldDescriptors(_ context.Context, tech search.Technology) ([]search.FieldDescriptor, error) {
	if l.calls == nil {
		l.calls = map[search.Technology]int{}
	}
	l.calls[tech]++
	return l.descs, l.err
}

var sampleDescriptors = []search.FieldDescriptor{
	{Key: "name", FieldType: search.FieldString, AvailableOperators: []search.Operator{search.Equals, search.Contains}},
	{Key: "usages", FieldType: search.FieldNumber, AvailableOperators: []search.Operator{search.Between}},
	// ordered operator on a string field is rejected
	{Key: "kernel", FieldType: search.FieldString, AvailableOperators: []search.Operator{search.LessThan}},
}

func TestDescriptorCache_LoadsOncePerTechnology(t *testing.T) {
	loader := &countingLoader{descs: sampleDescriptors}
	c, err := NewDescriptorCache(loader, 4, logger.Nop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		descs, err := c.Get(context.Background(), search.JPA)
		require.NoError(t, err)
		assert.Len(t, descs, 2)
	}
	_, err = c.Get(context.Background(), search.Mongo)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls[search.JPA])
	assert.Equal(t, 1, loader.calls[search.Mongo])

	stats := c.GetStats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 4, stats.Descriptors)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestDescriptorCache_ReturnsCopies(t *testing.T) {
	c, err := NewDescriptorCache(&countingLoader{descs: sampleDescriptors}, 0, logger.Nop())
	require.NoError(t, err)

	first, err := c.Get(context.Background(), search.JPA)
	require.NoError(t, err)
	first[0].Key = "mutated"

	second, err := c.Get(context.Background(), search.JPA)
	require.NoError(t, err)
	assert.Equal(t, "name", second[0].Key)
}

func TestDescriptorCache_ErrorsAreNotCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("backend down")}
	c, err := NewDescriptorCache(loader, 4, logger.Nop())
	require.NoError(t, err)

	_, err = c.Get(context.Background(), search.Elastic)
	assert.Error(t, err)

	loader.err = nil
	loader.descs = sampleDescriptors[:1]
	descs, err := c.Get(context.Background(), search.Elastic)
	require.NoError(t, err)
	assert.Len(t, descs, 1)
	assert.Equal(t, 2, loader.calls[search.Elastic])
}

func TestDescriptorCache_InvalidateReloadsAndNotifies(t *testing.T) {
	loader := &countingLoader{descs: sampleDescriptors}
	c, err := NewDescriptorCache(loader, 4, logger.Nop())
	require.NoError(t, err)

	var evicted []search.Technology
	c.OnInvalidation(func(tech search.Technology) { evicted = append(evicted, tech) })
	c.OnInvalidation(func(search.Technology) { panic("listener bug") })

	_, _ = c.Get(context.Background(), search.JPA)
	c.Invalidate(search.JPA)
	_, _ = c.Get(context.Background(), search.Mongo)
	purged := c.Purge()

	assert.Equal(t, 2, loader.calls[search.JPA])
	assert.ElementsMatch(t, []search.Technology{search.JPA, search.Mongo}, purged)
	require.Len(t, evicted, 3)
	assert.Equal(t, search.JPA, evicted[0])
	assert.ElementsMatch(t, []search.Technology{search.JPA, search.Mongo}, evicted[1:])
	assert.Zero(t, c.GetStats().Entries)
}

func TestDescriptorCache_EvictsLeastRecentlyUsed(t *testing.T) {
	loader := &countingLoader{descs: sampleDescriptors}
	c, err := NewDescriptorCache(loader, 1, logger.Nop())
	require.NoError(t, err)

	_, _ = c.Get(context.Background(), search.JPA)
	_, _ = c.Get(context.Background(), search.Mongo)
	_, _ = c.Get(context.Background(), search.JPA)

	assert.Equal(t, 2, loader.calls[search.JPA])
	assert.Equal(t, []search.Technology{search.JPA}, c.GetStats().Technologies)
}
