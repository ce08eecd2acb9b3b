// Package cache provides pluggable byte-level caching for index responses.
//
// Three backends are available:
//
//   - [FileCache]: entries stored as JSON files under a directory
//   - [RedisCache]: entries stored in a shared redis instance
//   - [NullCache]: no-op backend for disabling caching
//
// Keys are arbitrary strings; callers should namespace them to avoid
// collisions (e.g., "index:search:..."). Values are opaque byte slices,
// typically JSON-encoded by the caller.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
