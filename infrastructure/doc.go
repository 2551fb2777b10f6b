// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - storage/sqlite: the server, tag and vote store on database/sql
// - sqlitedb: opening sqlite with either mattn/go-sqlite3 or modernc.org/sqlite
// - cache/memory: in-memory cache on patrickmn/go-cache
// - cache/redis: Redis cache on go-redis
// - cache/sqlite: a cache table in a sqlite file
// - http/standard: net/http client with retries for idempotent requests
// - logger/structured: logrus logger with optional lumberjack file rotation
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # Storage
//
//	store, err := sqlite.Open("sqlite", "serverlist.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// # Logger
//
//	logger := structured.New(structured.Options{Level: "info", Format: "json"})
//	logger.Info("Server created", map[string]interface{}{
//	    "server_id": 12,
//	})
package infrastructure
