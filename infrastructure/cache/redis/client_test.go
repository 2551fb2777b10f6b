package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/core/interfaces"
	"serverlist-api/pkg/config"
)

// These are integration tests against a live Redis at REDIS_TEST_ADDR
// (default localhost:6379). They run only when REDIS_TEST=1.
func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	return newPrefixedTestCache(t, "")
}

func newPrefixedTestCache(t *testing.T, prefix string) *RedisCache {
	t.Helper()
	if os.Getenv("REDIS_TEST") != "1" {
		t.Skip("Skipping Redis integration tests - set REDIS_TEST=1 to run")
	}

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	cache, err := NewRedisCache(config.RedisConfig{Address: addr, KeyPrefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestNewRedisCache_InvalidAddress(t *testing.T) {
	cache, err := NewRedisCache(config.RedisConfig{})

	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	require.NoError(t, cache.Delete(ctx, "k"))
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestRedisCache_Pop(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pop", []byte("once"), time.Minute))

	got, err := cache.Pop(ctx, "pop")
	require.NoError(t, err)
	assert.Equal(t, "once", string(got))

	_, err = cache.Pop(ctx, "pop")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "ttl", []byte("v"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	_, err := cache.Get(ctx, "ttl")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := &RedisCache{prefix: "serverlist:"}
	assert.Equal(t, "serverlist:submission:abc", c.key("submission:abc"))

	c = &RedisCache{}
	assert.Equal(t, "submission:abc", c.key("submission:abc"))
}

func TestRedisCache_PrefixesIsolateInstances(t *testing.T) {
	a := newPrefixedTestCache(t, "serverlist-test-a:")
	b := newPrefixedTestCache(t, "serverlist-test-b:")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "shared", []byte("a"), time.Minute))
	t.Cleanup(func() { _ = a.Delete(ctx, "shared") })

	_, err := b.Get(ctx, "shared")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)

	got, err := a.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))
}
