// Package cache keeps backend field descriptors in memory, per technology.
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"gridsearch/internal/domain/search"
	"gridsearch/pkg/logger"
)

// DefaultSize is the number of technologies kept when no size is configured.
const DefaultSize = 16

// DescriptorLoader fetches the field descriptors of one technology.
type DescriptorLoader interface {
	FetchFieldDescriptors(ctx context.Context, tech search.Technology) ([]search.FieldDescriptor, error)
}

// InvalidationListener is called once per technology evicted by Invalidate or Purge.
type InvalidationListener func(tech search.Technology)

// DescriptorCache loads each technology's descriptors once and serves them from memory.
// Descriptors failing validation are dropped at load time.
type DescriptorCache struct {
	loader  DescriptorLoader
	log     *logger.Logger
	entries *lru.Cache[search.Technology, []search.FieldDescriptor]

	hits   atomic.Uint64
	misses atomic.Uint64

	listeners   []InvalidationListener
	listenersMu sync.RWMutex
}

// NewDescriptorCache creates a cache holding up to size technologies.
func NewDescriptorCache(loader DescriptorLoader, size int, log *logger.Logger) (*DescriptorCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[search.Technology, []search.FieldDescriptor](size)
	if err != nil {
		return nil, fmt.Errorf("create descriptor cache: %w", err)
	}
	return &DescriptorCache{
		loader:  loader,
		log:     log.WithComponent("descriptor_cache"),
		entries: entries,
	}, nil
}

// Get returns the descriptors of tech, loading them on first use.
// Concurrent misses may load twice; the last load wins.
func (c *DescriptorCache) Get(ctx context.Context, tech search.Technology) ([]search.FieldDescriptor, error) {
	if descs, ok := c.entries.Get(tech); ok {
		c.hits.Add(1)
		return slices.Clone(descs), nil
	}
	c.misses.Add(1)

	loaded, err := c.loader.FetchFieldDescriptors(ctx, tech)
	if err != nil {
		return nil, err
	}

	log := c.log.WithContext(ctx)
	descs := make([]search.FieldDescriptor, 0, len(loaded))
	for _, d := range loaded {
		if err := d.Validate(); err != nil {
			log.Warnw("field descriptor rejected", "technology", tech, "key", d.Key, "error", err)
			continue
		}
		descs = append(descs, d)
	}
	c.entries.Add(tech, descs)

	log.Infow("loaded field descriptors", "technology", tech, "descriptors", len(descs), "rejected", len(loaded)-len(descs))
	return slices.Clone(descs), nil
}

// Invalidate evicts tech so the next Get reloads it.
func (c *DescriptorCache) Invalidate(tech search.Technology) {
	c.entries.Remove(tech)
	c.notify(tech)
}

// Purge evicts every technology and returns the ones that were cached.
func (c *DescriptorCache) Purge() []search.Technology {
	techs := c.entries.Keys()
	c.entries.Purge()
	for _, tech := range techs {
		c.notify(tech)
	}
	return techs
}

// OnInvalidation registers a callback for evictions.
func (c *DescriptorCache) OnInvalidation(listener InvalidationListener) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, listener)
	c.listenersMu.Unlock()
}

func (c *DescriptorCache) notify(tech search.Technology) {
	c.listenersMu.RLock()
	defer c.listenersMu.RUnlock()
	for _, listener := range c.listeners {
		func(l InvalidationListener) {
			defer func() {
				if r := recover(); r != nil {
					c.log.Errorw("invalidation listener panic recovered", "technology", tech, "panic", r)
				}
			}()
			l(tech)
		}(listener)
	}
}

// CacheStats is a snapshot of cache usage.
type CacheStats struct {
	Entries      int
	Descriptors  int
	Hits         uint64
	Misses       uint64
	Technologies []search.Technology
}

// GetStats returns current cache statistics.
func (c *DescriptorCache) GetStats() CacheStats {
	techs := c.entries.Keys()
	total := 0
	for _, t := range techs {
		if descs, ok := c.entries.Peek(t); ok {
			total += len(descs)
		}
	}
	return CacheStats{
		Entries:      len(techs),
		Descriptors:  total,
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Technologies: techs,
	}
}
