// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, storage, logging and listing settings

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Storage contains database configuration
	Storage StorageConfig

	// Log contains logger configuration
	Log LogConfig

	// RateLimit contains per-IP request limits
	RateLimit RateLimitConfig

	// Listing contains pagination and listing cache settings
	Listing ListingConfig

	// Submission contains confirm-flow settings
	Submission SubmissionConfig

	// Tags contains tag seeding settings
	Tags TagsConfig

	// Workers contains background worker settings
	Workers WorkersConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// BaseURL is the public origin used in feeds and absolute links
	BaseURL string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// HTTPTimeout bounds outgoing requests such as cover probes
	HTTPTimeout time.Duration

	// TrustedProxies are the CIDRs or addresses allowed to set the client
	// address through X-Forwarded-For. Empty trusts no header.
	TrustedProxies []string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLitePath is the cache database file when Type is sqlite
	SQLitePath string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key so instances can share a database
	KeyPrefix string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the TTL for cached cover colours in seconds
	DefaultExpiration int
}

// StorageConfig holds database configuration
type StorageConfig struct {
	// Driver is sqlite3 (mattn/go-sqlite3) or sqlite (modernc.org/sqlite)
	Driver string

	// Path is the database file
	Path string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// RateLimitConfig holds per-IP rate limits
type RateLimitConfig struct {
	// Requests allowed per window
	Requests int

	// Window is the rate limit window
	Window time.Duration
}

// ListingConfig holds listing settings
type ListingConfig struct {
	PageSize    int
	MaxPageSize int
	CacheTTL    time.Duration
}

// SubmissionConfig holds confirm-flow settings
type SubmissionConfig struct {
	// TTL is how long a prepared submission can be confirmed
	TTL time.Duration
}

// TagsConfig holds tag seeding settings
type TagsConfig struct {
	// File is a YAML seed file; empty uses the built-in tag list
	File string
}

// WorkersConfig holds background worker settings
type WorkersConfig struct {
	CoverWorkers int
	CoverQueue   int
}

// LoadDotEnv loads variables from the given .env files into the environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	port := getEnvOrDefault("PORT", "8000")

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			BaseURL:         getEnvOrDefault("BASE_URL", "http://localhost:"+port),
			ReadTimeout:     getEnvAsDurationOrDefault("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDurationOrDefault("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
			HTTPTimeout:     getEnvAsDurationOrDefault("HTTP_TIMEOUT", 10*time.Second),
			TrustedProxies:  getEnvAsListOrDefault("TRUSTED_PROXIES", nil),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "serverlist:"),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 86400),
			},
			SQLitePath: getEnvOrDefault("CACHE_SQLITE_PATH", "cache.db"),
		},
		Storage: StorageConfig{
			Driver: getEnvOrDefault("STORAGE_DRIVER", "sqlite3"),
			Path:   getEnvOrDefault("STORAGE_PATH", "serverlist.db"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsIntOrDefault("RATE_LIMIT", 100),
			Window:   getEnvAsDurationOrDefault("RATE_WINDOW", time.Minute),
		},
		Listing: ListingConfig{
			PageSize:    getEnvAsIntOrDefault("PAGE_SIZE", 20),
			MaxPageSize: getEnvAsIntOrDefault("MAX_PAGE_SIZE", 50),
			CacheTTL:    getEnvAsDurationOrDefault("LISTING_CACHE_TTL", time.Minute),
		},
		Submission: SubmissionConfig{
			TTL: getEnvAsDurationOrDefault("SUBMISSION_TTL", 15*time.Minute),
		},
		Tags: TagsConfig{
			File: getEnvOrDefault("TAGS_FILE", ""),
		},
		Workers: WorkersConfig{
			CoverWorkers: getEnvAsIntOrDefault("COVER_WORKERS", 2),
			CoverQueue:   getEnvAsIntOrDefault("COVER_QUEUE", 100),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma separated value, dropping empty items
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvAsDurationOrDefault parses values like "90s" or "15m"; a bare
// integer is read as seconds
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "redis", "memory", "sqlite":
	default:
		return errors.New("cache type must be 'redis', 'memory' or 'sqlite'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Storage.Driver != "sqlite3" && c.Storage.Driver != "sqlite" {
		return errors.New("storage driver must be 'sqlite3' or 'sqlite'")
	}

	if c.Storage.Path == "" {
		return errors.New("storage path cannot be empty")
	}

	if c.Listing.PageSize < 1 {
		return errors.New("page size must be at least 1")
	}

	if c.Listing.MaxPageSize < c.Listing.PageSize {
		return errors.New("max page size cannot be smaller than page size")
	}

	if c.Submission.TTL <= 0 {
		return errors.New("submission ttl must be positive")
	}

	if c.Workers.CoverWorkers < 1 || c.Workers.CoverQueue < 1 {
		return errors.New("cover workers and queue size must be at least 1")
	}

	return nil
}
