// Package cache provides byte-level caching for computed planes, rendered
// images, and HTTP responses.
//
// Values are opaque byte slices with an optional TTL; Keyer builds the keys
// so that every input that changes the bytes is part of the key. Four
// backends implement the Cache interface:
//
//   - FileCache: persistent cache under a directory, for repeated CLI runs
//   - MemoryCache: process-local, for tests and one-shot commands
//   - RedisCache: shared cache for multi-instance serve deployments
//   - NullCache: disables caching
//
// The orbit memoization used by the arithmetic families is a separate,
// typed concern: see ShardedMap.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Default TTLs per entry kind. Planes are expensive to compute and
// immutable for a given key, so they live long; artifacts are cheap to
// rebuild from a cached plane, and HTTP responses go stale with the API.
const (
	TTLPlane  = 30 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
	TTLHTTP   = time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the bytes stored under key. The second return reports
	// whether the key was present; absence is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it
	// is deleted or evicted by the backend.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// GetJSON loads key and unmarshals the entry into v.
// A miss is reported as ErrCacheMiss.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
