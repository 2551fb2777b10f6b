// ABOUTME: SQLite-based cache implementation for persistent caching
// ABOUTME: Provides a file-based cache that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"serverlist-api/core/interfaces"
	"serverlist-api/infrastructure/sqlitedb"
)

// cleanupInterval is how often expired rows are removed
const cleanupInterval = 5 * time.Minute

// Client implements the Cache interface using SQLite
type Client struct {
	db       *sql.DB
	filePath string

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSQLiteCache creates a new SQLite cache client using driver
// ("sqlite3" or "sqlite")
func NewSQLiteCache(driver, filePath string) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	db, err := sqlitedb.Open(driver, filePath)
	if err != nil {
		return nil, err
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		stop:     make(chan struct{}),
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go client.cleanupRoutine()

	return client, nil
}

// initSchema creates the cache table if it doesn't exist.
// expiry is unix nanoseconds; 0 means the entry never expires.
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_expiry ON cache(expiry);
	`

	_, err := c.db.Exec(query)
	return err
}

// Get retrieves a value from the cache
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	var value []byte
	query := "SELECT value FROM cache WHERE key = ? AND (expiry = 0 OR expiry > ?)"
	err := c.db.QueryRowContext(ctx, query, key, time.Now().UnixNano()).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set stores a value in the cache with TTL
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if value == nil {
		value = []byte{}
	}

	var expiry int64
	if ttl > 0 {
		expiry = time.Now().Add(ttl).UnixNano()
	}

	query := `
		INSERT OR REPLACE INTO cache (key, value, expiry)
		VALUES (?, ?, ?)
	`

	if _, err := c.db.ExecContext(ctx, query, key, value, expiry); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes a value from the cache
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

// Pop reads and deletes a live entry inside one transaction
func (c *Client) Pop(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin pop: %w", err)
	}
	defer tx.Rollback()

	var value []byte
	err = tx.QueryRowContext(ctx,
		"SELECT value FROM cache WHERE key = ? AND (expiry = 0 OR expiry > ?)",
		key, time.Now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key)
	if err != nil {
		return nil, fmt.Errorf("failed to delete value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, interfaces.ErrCacheMiss
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pop: %w", err)
	}

	return value, nil
}

// Clear removes all values from the cache
func (c *Client) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (c *Client) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Client) cleanup() {
	_, _ = c.db.Exec("DELETE FROM cache WHERE expiry != 0 AND expiry <= ?", time.Now().UnixNano())
}

// Close stops the cleanup routine and closes the database connection
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return c.db.Close()
}

// Stats returns cache statistics
func (c *Client) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_entries"] = count

	var expired int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cache WHERE expiry != 0 AND expiry <= ?", time.Now().UnixNano(),
	).Scan(&expired)
	if err != nil {
		return nil, err
	}
	stats["expired_entries"] = expired
	stats["file_path"] = c.filePath

	return stats, nil
}
