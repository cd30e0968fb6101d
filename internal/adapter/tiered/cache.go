// Package tiered composes the in-process L1 cache with the shared L2 cache
// behind the single cache port the pool service consumes.
package tiered

import (
	"context"
	"time"

	"github.com/voyago/voyago/internal/port/cache"
)

// Cache layers a fast local cache over a shared remote one. Reads prefer
// L1 and backfill it on an L2 hit; writes and deletes go to both levels.
type Cache struct {
	l1       cache.Cache
	l2       cache.Cache
	l1Expire time.Duration
}

// New creates a tiered cache. l1Expire bounds how long an L2 backfill stays
// in L1, keeping replicas from serving a stale local copy long after the
// shared entry changed.
func New(l1, l2 cache.Cache, l1Expire time.Duration) *Cache {
	return &Cache{l1: l1, l2: l2, l1Expire: l1Expire}
}

// Get returns the freshest available copy, promoting L2 hits into L1.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	if val, found, err := c.l1.Get(ctx, key); err != nil || found {
		return val, found, err
	}

	val, found, err := c.l2.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	_ = c.l1.Set(ctx, key, val, c.l1Expire)
	return val, true, nil
}

// Set writes through to both levels.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l1.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.l2.Set(ctx, key, value, ttl)
}

// Delete removes the key from both levels.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.l1.Delete(ctx, key); err != nil {
		return err
	}
	return c.l2.Delete(ctx, key)
}
