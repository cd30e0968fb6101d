// Package ristretto implements the cache port using dgraph-io/ristretto as
// the in-process L1 cache for candidate pools.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Pool payloads are few and large, so cost accounting is by value size and
// the admission counters are sized for roughly a thousand destinations.
const numCounters = 10_000

// Cache wraps a ristretto cache as an in-process L1 cache.
type Cache struct {
	inner *ristretto.Cache[string, []byte]
}

// New creates a ristretto-backed cache capped at maxCostBytes of stored
// value bytes.
func New(maxCostBytes int64) (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: numCounters,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

// Get retrieves a value from the cache.
func (c *Cache) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	val, found := c.inner.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value with the given TTL. It waits for the write buffer to
// flush so a freshly fetched pool is visible to the next request.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.inner.SetWithTTL(key, value, int64(len(value)), ttl)
	c.inner.Wait()
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.inner.Del(key)
	return nil
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.inner.Close()
}
