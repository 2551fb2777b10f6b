// ABOUTME: Storage interfaces for persisting domain entities
// ABOUTME: Defines contracts for server, tag and vote persistence

package interfaces

import (
	"context"
	"time"

	"serverlist-api/core/domain"
)

// ServerStore persists servers and their tag links
type ServerStore interface {
	// CreateServer inserts the server and links the given tag ids. ID,
	// CreatedAt and UpdatedAt are set on s.
	CreateServer(ctx context.Context, s *domain.Server, tagIDs []int64) error

	// UpdateServer replaces the editable fields and tag links. Returns a
	// NotFoundError if the server does not exist.
	UpdateServer(ctx context.Context, s *domain.Server, tagIDs []int64) error

	// GetServer loads one server with votes counted from since.
	GetServer(ctx context.Context, id int64, since time.Time) (*domain.Server, error)

	// ListServers returns up to limit servers starting at offset.
	ListServers(ctx context.Context, q domain.ListQuery, since time.Time, offset, limit int) ([]*domain.Server, error)

	// IncrementViews adds one view to the server
	IncrementViews(ctx context.Context, id int64) error

	// SetCoverColor stores the extracted cover colour
	SetCoverColor(ctx context.Context, id int64, color string) error
}

// TagStore persists tags
type TagStore interface {
	// ListTags returns every tag with its server count, ordered by name
	ListTags(ctx context.Context) ([]domain.Tag, error)

	// FindTags returns the tags matching the slugs; unknown slugs are skipped
	FindTags(ctx context.Context, slugs []string) ([]domain.Tag, error)

	// UpsertTags inserts tags or renames existing ones by slug
	UpsertTags(ctx context.Context, tags []domain.Tag) error
}

// VoteStore persists votes
type VoteStore interface {
	// AddVote records the vote. Returns a ConflictError if the voter already
	// voted the server on the same day.
	AddVote(ctx context.Context, v domain.Vote) error
}

// Store groups all persistence contracts
type Store interface {
	ServerStore
	TagStore
	VoteStore
	Close() error
}
