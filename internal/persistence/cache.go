package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const hireListKey = "hires:list"

// HireListCache keeps the serialized hire list in Redis so repeated list
// reads skip the database. Every write path must invalidate it.
type HireListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHireListCache builds the cache facade. A nil client disables caching.
func NewHireListCache(r *Redis, ttl time.Duration) *HireListCache {
	if r == nil {
		return &HireListCache{}
	}
	return &HireListCache{client: r.Client, ttl: ttl}
}

// Get returns the cached payload, or false when cold or unavailable.
func (c *HireListCache) Get(ctx context.Context) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, hireListKey).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores the serialized list. Cache failures are ignored; the cache is
// an optimization, not a source of truth.
func (c *HireListCache) Set(ctx context.Context, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, hireListKey, payload, c.ttl).Err()
}

// Invalidate drops the cached list.
func (c *HireListCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, hireListKey).Err()
}
