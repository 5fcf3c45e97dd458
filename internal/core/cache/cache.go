// Package cache defines the key/value store used for conversation snapshots.
package cache

import (
	"context"
	"time"
)

// Type selects the cache implementation.
type Type string

const (
	// TypeRedis selects Redis.
	TypeRedis Type = "redis"
)

// Cache defines the interface for cache operations.
type Cache interface {
	// Get retrieves a value by key. Returns nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. If ttl is 0, the default TTL is used.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Ping checks if the cache connection is alive.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
