// ABOUTME: Opens SQLite databases through either registered driver
// ABOUTME: sqlite3 is mattn/go-sqlite3 (cgo), sqlite is modernc.org/sqlite (pure Go)

package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO selects mattn/go-sqlite3
	DriverCGO = "sqlite3"

	// DriverPure selects modernc.org/sqlite
	DriverPure = "sqlite"
)

// Open connects to the database at path and applies the connection pragmas.
// An empty driver defaults to DriverCGO. The pool holds a single connection:
// pragmas are per connection and a ":memory:" database is private to the
// connection that created it.
func Open(driver, path string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverCGO
	}
	if driver != DriverCGO && driver != DriverPure {
		return nil, fmt.Errorf("unsupported sqlite driver: %s", driver)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return db, nil
}
