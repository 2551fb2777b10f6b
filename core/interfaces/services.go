// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for services used throughout the application

package interfaces

import (
	"context"

	"serverlist-api/core/domain"
)

// CoverColorService extracts the dominant colour of cover images
type CoverColorService interface {
	ExtractColor(ctx context.Context, imageURL string) (*domain.RGBColor, error)
}

// CoverProber checks that a cover URL serves an image
type CoverProber interface {
	Probe(ctx context.Context, imageURL string) error
}

// CoverEnqueuer schedules background cover colour extraction
type CoverEnqueuer interface {
	Enqueue(serverID int64, coverURL string) error
}

// CoverColorSink receives extracted cover colours
type CoverColorSink interface {
	SetCoverColor(ctx context.Context, id int64, color string) error
}

// ServerService defines operations on published servers
type ServerService interface {
	Validate(ctx context.Context, draft domain.ServerDraft) error
	Create(ctx context.Context, draft domain.ServerDraft) (*domain.Server, error)
	Update(ctx context.Context, id int64, draft domain.ServerDraft) (*domain.Server, error)
	Get(ctx context.Context, id int64, window domain.Window) (*domain.Server, error)
	RecordView(ctx context.Context, id int64) error
	List(ctx context.Context, q domain.ListQuery) (*domain.Page, error)
	Top(ctx context.Context, window domain.Window) (*domain.Server, error)
	Vote(ctx context.Context, id int64, voter string) (*domain.Server, error)
}

// TagService defines operations on tags
type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
}

// SubmissionService defines the prepare and confirm flow for server edits
type SubmissionService interface {
	Prepare(ctx context.Context, draft domain.ServerDraft, serverID int64) (*domain.Submission, error)
	Get(ctx context.Context, token string) (*domain.Submission, error)
	Confirm(ctx context.Context, token string) (*domain.Confirmation, error)
	Cancel(ctx context.Context, token string) error
}
