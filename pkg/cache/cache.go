// Package cache stores serialized artifacts between runs.
//
// Rendering the graph format starts a Graphviz instance, which costs far
// more than the rest of the pipeline. The pipeline keys those artifacts by
// a hash of their input and keeps them in a Cache. The CLI uses a FileCache
// under the user's cache directory; NullCache disables caching.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired or
	// unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
