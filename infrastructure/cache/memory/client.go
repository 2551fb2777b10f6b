// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Provides TTL expiry, periodic cleanup and an atomic get-and-delete

package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"serverlist-api/core/interfaces"
)

// DefaultCleanupInterval is how often expired items are purged
const DefaultCleanupInterval = 10 * time.Minute

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache

	// popMu serialises Pop so a value is handed out once
	popMu sync.Mutex
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithCleanup(DefaultCleanupInterval)
}

// NewMemoryCacheWithCleanup creates a cache that purges expired items every interval
func NewMemoryCacheWithCleanup(interval time.Duration) *MemoryCache {
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, interval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}

	return copyBytes(value.([]byte)), nil
}

// Set stores a value in the cache with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	expiration := ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
	}

	c.items.Set(key, copyBytes(value), expiration)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Pop returns the value for key and removes it
func (c *MemoryCache) Pop(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.popMu.Lock()
	defer c.popMu.Unlock()

	value, ok := c.items.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	c.items.Delete(key)

	return value.([]byte), nil
}

// ItemCount returns the number of items, including expired ones not yet purged
func (c *MemoryCache) ItemCount() int {
	return c.items.ItemCount()
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
