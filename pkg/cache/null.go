package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get is a miss. It backs --no-cache and
// Runners created without a cache, and honours cancellation like FileCache.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get reports a miss, or ctx's error once ctx is done.
func (*NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

// Set discards data.
func (*NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (*NullCache) Delete(ctx context.Context, _ string) error { return ctx.Err() }

func (*NullCache) Close() error { return nil }
