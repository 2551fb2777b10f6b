// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get and Pop when the key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the interface for cache operations.
// Implementations can be Redis, in-memory, SQLite or any other caching solution.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value
//	err := cache.Set(ctx, "submission:123", data, 15*time.Minute)
//
//	// Retrieve and remove a value in one step
//	data, err := cache.Pop(ctx, "submission:123")
//	if errors.Is(err, interfaces.ErrCacheMiss) {
//		// someone else already consumed it
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Pop atomically retrieves and removes a value. Of several concurrent
	// callers for the same key at most one receives the value; the others
	// get ErrCacheMiss.
	Pop(ctx context.Context, key string) ([]byte, error)
}
