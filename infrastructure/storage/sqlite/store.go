// ABOUTME: SQLite persistence for servers, tags and votes
// ABOUTME: Computes window vote counts in SQL and enforces one vote per voter per server per day

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/infrastructure/sqlitedb"
)

// Store implements interfaces.Store on SQLite
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path with the given driver and
// applies the schema. Parent directories are created as needed.
func Open(driver, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sqlitedb.Open(driver, path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS servers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		ip TEXT NOT NULL,
		cover TEXT NOT NULL,
		cover_color TEXT NOT NULL DEFAULT '',
		views INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_servers_created ON servers(created_at);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS server_tags (
		server_id INTEGER NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (server_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_server_tags_tag ON server_tags(tag_id);

	-- day is the UTC date of the vote, one vote per voter per server per day
	CREATE TABLE IF NOT EXISTS votes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		server_id INTEGER NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
		voter TEXT NOT NULL,
		day TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(server_id, voter, day)
	);

	CREATE INDEX IF NOT EXISTS idx_votes_server_created ON votes(server_id, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// serverColumns selects a server row with its vote count from the first
// query argument (unix millis) on
const serverColumns = `
	s.id, s.title, s.content, s.ip, s.cover, s.cover_color, s.views, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM votes v WHERE v.server_id = s.id AND v.created_at >= ?) AS window_votes`

// CreateServer inserts the server and links its tags
func (s *Store) CreateServer(ctx context.Context, srv *domain.Server, tagIDs []int64) error {
	now := time.Now().UTC()
	if srv.CreatedAt.IsZero() {
		srv.CreatedAt = now
	}
	srv.UpdatedAt = srv.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO servers (title, content, ip, cover, cover_color, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		srv.Title, srv.Content, srv.IP, srv.Cover, srv.CoverColor,
		srv.CreatedAt.UnixMilli(), srv.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert server: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read server id: %w", err)
	}

	if err := linkTags(ctx, tx, id, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit server: %w", err)
	}

	srv.ID = id
	return nil
}

// UpdateServer replaces the editable fields and the tag links
func (s *Store) UpdateServer(ctx context.Context, srv *domain.Server, tagIDs []int64) error {
	if srv.UpdatedAt.IsZero() {
		srv.UpdatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE servers SET title = ?, content = ?, ip = ?, cover = ?, updated_at = ?
		WHERE id = ?`,
		srv.Title, srv.Content, srv.IP, srv.Cover, srv.UpdatedAt.UnixMilli(), srv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &coreerrors.NotFoundError{Resource: "server", ID: strconv.FormatInt(srv.ID, 10)}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM server_tags WHERE server_id = ?", srv.ID); err != nil {
		return fmt.Errorf("failed to clear server tags: %w", err)
	}
	if err := linkTags(ctx, tx, srv.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit server: %w", err)
	}
	return nil
}

func linkTags(ctx context.Context, tx *sql.Tx, serverID int64, tagIDs []int64) error {
	for i, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO server_tags (server_id, tag_id, position) VALUES (?, ?, ?)",
			serverID, tagID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to link tag %d: %w", tagID, err)
		}
	}
	return nil
}

// GetServer loads one server with the votes cast since the given time
func (s *Store) GetServer(ctx context.Context, id int64, since time.Time) (*domain.Server, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+serverColumns+" FROM servers s WHERE s.id = ?",
		sinceMillis(since), id,
	)

	srv, err := scanServer(row)
	if err == sql.ErrNoRows {
		return nil, &coreerrors.NotFoundError{Resource: "server", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}

	if err := s.attachTags(ctx, []*domain.Server{srv}); err != nil {
		return nil, err
	}
	return srv, nil
}

// ListServers returns one page of servers for the query
func (s *Store) ListServers(ctx context.Context, q domain.ListQuery, since time.Time, offset, limit int) ([]*domain.Server, error) {
	var b strings.Builder
	args := []interface{}{sinceMillis(since)}

	b.WriteString("SELECT " + serverColumns + " FROM servers s WHERE 1 = 1")

	if !q.CreatedAfter.IsZero() {
		b.WriteString(" AND s.created_at >= ?")
		args = append(args, q.CreatedAfter.UnixMilli())
	}

	if q.Tag != "" {
		b.WriteString(` AND EXISTS (
			SELECT 1 FROM server_tags st JOIN tags t ON t.id = st.tag_id
			WHERE st.server_id = s.id AND t.slug = ?)`)
		args = append(args, q.Tag)
	}

	switch q.Sort {
	case domain.SortRecent:
		b.WriteString(" ORDER BY s.created_at DESC, s.id DESC")
	default:
		b.WriteString(" ORDER BY window_votes DESC, s.views DESC, s.created_at DESC, s.id DESC")
	}

	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	servers := make([]*domain.Server, 0, limit)
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan server: %w", err)
		}
		servers = append(servers, srv)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	if err := s.attachTags(ctx, servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// attachTags loads the tags of all servers with a single query
func (s *Store) attachTags(ctx context.Context, servers []*domain.Server) error {
	if len(servers) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Server, len(servers))
	args := make([]interface{}, 0, len(servers))
	for _, srv := range servers {
		srv.Tags = []domain.Tag{}
		byID[srv.ID] = srv
		args = append(args, srv.ID)
	}

	query := `
		SELECT st.server_id, t.id, t.slug, t.name
		FROM server_tags st JOIN tags t ON t.id = st.tag_id
		WHERE st.server_id IN (` + placeholders(len(args)) + `)
		ORDER BY st.server_id, st.position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load server tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var serverID int64
		var tag domain.Tag
		if err := rows.Scan(&serverID, &tag.ID, &tag.Slug, &tag.Name); err != nil {
			return fmt.Errorf("failed to scan server tag: %w", err)
		}
		if srv, ok := byID[serverID]; ok {
			srv.Tags = append(srv.Tags, tag)
		}
	}
	return rows.Err()
}

// IncrementViews adds one view to the server
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	return s.updateOne(ctx, "UPDATE servers SET views = views + 1 WHERE id = ?", id)
}

// SetCoverColor stores the extracted cover colour
func (s *Store) SetCoverColor(ctx context.Context, id int64, color string) error {
	return s.updateOne(ctx, "UPDATE servers SET cover_color = ? WHERE id = ?", color, id)
}

// updateOne runs an update whose last argument is the server id
func (s *Store) updateOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		id := args[len(args)-1].(int64)
		return &coreerrors.NotFoundError{Resource: "server", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}

// ListTags returns every tag with the number of servers using it
func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.slug, t.name, COUNT(st.server_id)
		FROM tags t LEFT JOIN server_tags st ON st.tag_id = t.id
		GROUP BY t.id, t.slug, t.name
		ORDER BY t.name COLLATE NOCASE, t.slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.ServerCount); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindTags returns the tags for the slugs in the order given
func (s *Store) FindTags(ctx context.Context, slugs []string) ([]domain.Tag, error) {
	if len(slugs) == 0 {
		return []domain.Tag{}, nil
	}

	args := make([]interface{}, len(slugs))
	for i, slug := range slugs {
		args[i] = slug
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, slug, name FROM tags WHERE slug IN ("+placeholders(len(args))+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	defer rows.Close()

	found := make(map[string]domain.Tag, len(slugs))
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		found[t.Slug] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, 0, len(found))
	for _, slug := range slugs {
		if t, ok := found[slug]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// UpsertTags inserts new tags and renames existing ones
func (s *Store) UpsertTags(ctx context.Context, tags []domain.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tags (slug, name) VALUES (?, ?)
			ON CONFLICT(slug) DO UPDATE SET name = excluded.name`,
			t.Slug, t.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %s: %w", t.Slug, err)
		}
	}

	return tx.Commit()
}

// AddVote records a vote, at most one per voter per server per UTC day
func (s *Store) AddVote(ctx context.Context, v domain.Vote) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO votes (server_id, voter, day, created_at)
		VALUES (?, ?, ?, ?)`,
		v.ServerID, v.Voter, v.Day(), v.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to add vote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &coreerrors.ConflictError{Resource: "vote", Message: "already voted today"}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanServer(row rowScanner) (*domain.Server, error) {
	var srv domain.Server
	var created, updated int64
	err := row.Scan(
		&srv.ID, &srv.Title, &srv.Content, &srv.IP, &srv.Cover, &srv.CoverColor,
		&srv.Views, &created, &updated, &srv.Votes,
	)
	if err != nil {
		return nil, err
	}
	srv.CreatedAt = time.UnixMilli(created).UTC()
	srv.UpdatedAt = time.UnixMilli(updated).UTC()
	return &srv, nil
}

func sinceMillis(since time.Time) int64 {
	if since.IsZero() {
		return 0
	}
	return since.UnixMilli()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
