// Package natskv implements the cache port using NATS JetStream KV as the
// shared L2 cache, so pool fetches survive a process restart and are shared
// between replicas.
package natskv

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Cache adapts a JetStream KeyValue bucket to the cache port. Expiry is the
// bucket TTL; the per-entry TTL argument is ignored.
type Cache struct {
	bucket jetstream.KeyValue
}

// New creates a NATS KV-backed cache.
func New(kv jetstream.KeyValue) *Cache {
	return &Cache{bucket: kv}
}

// Get retrieves a value. A missing key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	entry, err := c.bucket.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value(), true, nil
}

// Set stores a value. Expiry is governed by the bucket TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	_, err := c.bucket.Put(ctx, key, value)
	return err
}

// Delete purges a key, dropping its revision history as well. Cached pools
// have no use for old revisions.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.bucket.Purge(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}
