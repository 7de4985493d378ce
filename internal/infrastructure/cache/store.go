package cache

import (
	"context"
	"time"
)

// Store is a string key-value store with per-key TTL. Implementations must
// be safe for concurrent use.
type Store interface {
	// Get returns the value and whether the key was present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
