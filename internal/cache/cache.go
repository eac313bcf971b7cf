// Package cache provides a small TTL cache for configuration lookups.
//
// Lookups distinguish present from absent results and cache both, with
// separate TTLs, so an unconfigured key does not hammer its backing store
// yet recovers quickly once configured.
package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// entry wraps a cached lookup result. Absent results are cached as ok=false.
type entry[V any] struct {
	value V
	ok    bool
}

// Cache is a TTL cache keyed by string.
type Cache[V any] struct {
	c *ristretto.Cache
}

// New creates a cache sized for maxEntries values.
func New[V any](maxEntries int64) (*Cache[V], error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache[V]{c: c}, nil
}

// GetOrFetch returns the cached result for key, or runs fetch and caches its
// result: ttlPresent for a found value, ttlAbsent for a miss. Fetch errors
// are returned uncached.
func (c *Cache[V]) GetOrFetch(
	ctx context.Context,
	key string,
	ttlPresent, ttlAbsent time.Duration,
	fetch func(context.Context) (V, bool, error),
) (V, bool, error) {
	if raw, hit := c.c.Get(key); hit {
		e := raw.(entry[V])
		return e.value, e.ok, nil
	}

	value, ok, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, false, err
	}

	ttl := ttlPresent
	if !ok {
		ttl = ttlAbsent
	}
	c.c.SetWithTTL(key, entry[V]{value: value, ok: ok}, 1, ttl)

	return value, ok, nil
}

// Del drops a key.
func (c *Cache[V]) Del(key string) { c.c.Del(key) }

// Wait blocks until pending writes are applied. Intended for tests.
func (c *Cache[V]) Wait() { c.c.Wait() }
