package cache

import "context"

// Invalidator marks a cached view stale so the next read re-fetches.
// The mutation pipeline only requests invalidation; it never waits for
// confirmation that the invalidation landed.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}
