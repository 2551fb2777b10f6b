// ABOUTME: Listing cache holds server pages, top servers and tag lists between mutations
// ABOUTME: Entries are keyed by a generation that every mutation replaces

package listing

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"serverlist-api/core/interfaces"
	"serverlist-api/pkg/metrics"
)

// generationKey stores the current generation; it never expires
const generationKey = "listing:generation"

// Cache stores listing reads under the current generation. Invalidate
// switches to a new generation, so older entries are never read again and
// simply expire.
type Cache struct {
	cache   interfaces.Cache
	ttl     time.Duration
	logger  interfaces.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	last int64
}

// New creates a listing cache. A nil cache disables caching; logger and m
// may be nil.
func New(cache interfaces.Cache, ttl time.Duration, logger interfaces.Logger, m *metrics.Metrics) *Cache {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Cache{
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// Slot is where one read-through stores its result. It pins the generation
// seen by Load, so a result read before an invalidation is never stored
// under the generation that follows it.
type Slot struct {
	name string
	key  string
}

// Load decodes the entry stored under name into dest and reports a hit. The
// returned Slot is passed to Store on a miss.
func (c *Cache) Load(ctx context.Context, name string, dest interface{}) (Slot, bool) {
	if c == nil || c.cache == nil || c.ttl <= 0 {
		return Slot{name: name}, false
	}

	slot := Slot{name: name, key: c.key(ctx, name)}
	data, err := c.cache.Get(ctx, slot.key)
	if err != nil {
		c.metrics.CacheMiss()
		return slot, false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.metrics.CacheMiss()
		c.logger.Warn("Discarding unreadable listing cache entry", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return slot, false
	}

	c.metrics.CacheHit()
	return slot, true
}

// Store saves v in slot for the configured TTL
func (c *Cache) Store(ctx context.Context, slot Slot, v interface{}) {
	if c == nil || c.cache == nil || c.ttl <= 0 || slot.key == "" {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode listing cache entry", map[string]interface{}{
			"name":  slot.name,
			"error": err.Error(),
		})
		return
	}

	if err := c.cache.Set(ctx, slot.key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to store listing cache entry", map[string]interface{}{
			"name":  slot.name,
			"error": err.Error(),
		})
	}
}

// Invalidate makes every entry stored so far unreachable
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.cache == nil {
		return nil
	}

	gen := c.nextGeneration()
	return c.cache.Set(ctx, generationKey, []byte(strconv.FormatInt(gen, 10)), 0)
}

// Generation returns the current generation, "0" before the first mutation
func (c *Cache) Generation(ctx context.Context) string {
	data, err := c.cache.Get(ctx, generationKey)
	if err != nil || len(data) == 0 {
		return "0"
	}
	return string(data)
}

func (c *Cache) key(ctx context.Context, name string) string {
	return "listing:g" + c.Generation(ctx) + ":" + name
}

// nextGeneration returns a unique, increasing value so two concurrent
// invalidations never land on the same generation
func (c *Cache) nextGeneration() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := time.Now().UnixNano()
	if gen <= c.last {
		gen = c.last + 1
	}
	c.last = gen
	return gen
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
