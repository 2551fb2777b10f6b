package listing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/infrastructure/cache/memory"
)

type entry struct {
	Names []string
}

func TestCache_StoreLoad(t *testing.T) {
	c := New(memory.NewMemoryCache(), time.Minute, nopLogger{}, nil)
	ctx := context.Background()

	var got entry
	slot, hit := c.Load(ctx, "tags", &got)
	assert.False(t, hit)

	c.Store(ctx, slot, entry{Names: []string{"pvp"}})
	_, hit = c.Load(ctx, "tags", &got)
	require.True(t, hit)
	assert.Equal(t, []string{"pvp"}, got.Names)
}

func TestCache_InvalidateHidesOldEntries(t *testing.T) {
	backend := memory.NewMemoryCache()
	c := New(backend, time.Minute, nopLogger{}, nil)
	ctx := context.Background()

	var got entry
	slot, _ := c.Load(ctx, "top:month", &got)
	c.Store(ctx, slot, entry{Names: []string{"old"}})
	oldGen := c.Generation(ctx)

	require.NoError(t, c.Invalidate(ctx))
	assert.NotEqual(t, oldGen, c.Generation(ctx))

	slot, hit := c.Load(ctx, "top:month", &got)
	assert.False(t, hit)

	c.Store(ctx, slot, entry{Names: []string{"new"}})
	_, hit = c.Load(ctx, "top:month", &got)
	require.True(t, hit)
	assert.Equal(t, []string{"new"}, got.Names)

	// the generation key itself never expires
	raw, err := backend.Get(ctx, generationKey)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), ":"))
}

func TestCache_GenerationsAreUnique(t *testing.T) {
	c := New(memory.NewMemoryCache(), time.Minute, nopLogger{}, nil)

	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		gen := c.nextGeneration()
		assert.False(t, seen[gen])
		seen[gen] = true
	}
}

func TestCache_DisabledWhenNilOrZeroTTL(t *testing.T) {
	ctx := context.Background()
	var nilCache *Cache

	slot, hit := nilCache.Load(ctx, "x", &entry{})
	assert.False(t, hit)
	nilCache.Store(ctx, slot, entry{})
	assert.NoError(t, nilCache.Invalidate(ctx))

	c := New(memory.NewMemoryCache(), 0, nopLogger{}, nil)
	slot, _ = c.Load(ctx, "x", &entry{})
	c.Store(ctx, slot, entry{Names: []string{"a"}})
	_, hit = c.Load(ctx, "x", &entry{})
	assert.False(t, hit)
}

func TestCache_StoreAfterInvalidateIsNotServed(t *testing.T) {
	c := New(memory.NewMemoryCache(), time.Minute, nopLogger{}, nil)
	ctx := context.Background()

	var got entry
	slot, hit := c.Load(ctx, "page", &got)
	require.False(t, hit)

	// a mutation lands between the store read and the cache write
	require.NoError(t, c.Invalidate(ctx))
	c.Store(ctx, slot, entry{Names: []string{"stale"}})

	_, hit = c.Load(ctx, "page", &got)
	assert.False(t, hit)
}

func TestCache_NilLogger(t *testing.T) {
	backend := memory.NewMemoryCache()
	c := New(backend, time.Minute, nil, nil)
	ctx := context.Background()

	var got entry
	slot, _ := c.Load(ctx, "tags", &got)
	require.NoError(t, backend.Set(ctx, slot.key, []byte("{not json"), time.Minute))

	assert.NotPanics(t, func() {
		_, hit := c.Load(ctx, "tags", &got)
		assert.False(t, hit)
	})
}
