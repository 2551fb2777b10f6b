// ABOUTME: Redis cache backend on go-redis, shared between API instances
// ABOUTME: Namespaces keys with a prefix and pops submissions with GETDEL

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"serverlist-api/core/interfaces"
	"serverlist-api/pkg/config"
)

const pingTimeout = 5 * time.Second

// RedisCache implements interfaces.Cache on a Redis database
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to cfg.Address and fails when Redis does not answer
// a PING
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}

	return &RedisCache{client: client, prefix: cfg.KeyPrefix}, nil
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

// Get returns interfaces.ErrCacheMiss for absent or expired keys
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return missing(c.client.Get(ctx, c.key(key)).Bytes())
}

// Set stores value; a zero ttl keeps it until deleted
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Pop reads and removes key in one GETDEL, so two confirmations of the same
// submission cannot both see it
func (c *RedisCache) Pop(ctx context.Context, key string) ([]byte, error) {
	return missing(c.client.GetDel(ctx, c.key(key)).Bytes())
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func missing(val []byte, err error) ([]byte, error) {
	if errors.Is(err, redis.Nil) {
		return nil, interfaces.ErrCacheMiss
	}
	return val, err
}
