package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pathCachePrefix = "pathcache:"

// PathCache stores rendered GET responses in Redis keyed by request path and
// query, so listing reads survive between mutations. Invalidate removes every
// cached variant under a path prefix (all query-string permutations at once).
// PathCache satisfies the Invalidator interface.
type PathCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPathCache creates a PathCache with the given entry TTL.
func NewPathCache(rdb *redis.Client, ttl time.Duration) *PathCache {
	return &PathCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached body for the exact path (including query string),
// or ok=false on a miss. Redis errors are treated as misses.
func (c *PathCache) Get(ctx context.Context, path string) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, pathCachePrefix+path).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the body for the exact path. Errors are returned so callers can
// log them, but a failed Set only costs a future cache miss.
func (c *PathCache) Set(ctx context.Context, path string, body []byte) error {
	if err := c.rdb.Set(ctx, pathCachePrefix+path, body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", path, err)
	}
	return nil
}

// Invalidate deletes every cached entry whose path starts with the given
// path, e.g. Invalidate(ctx, "/dashboard/invoices") drops all cached pages
// and search variants of the invoices listing.
func (c *PathCache) Invalidate(ctx context.Context, path string) error {
	pattern := pathCachePrefix + path + "*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys for %s: %w", path, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys for %s: %w", path, err)
	}
	return nil
}
