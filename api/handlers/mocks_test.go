package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/api/middleware"
	"serverlist-api/core/domain"
)

// mockServerService is a mock implementation of interfaces.ServerService
type mockServerService struct {
	validateFunc func(ctx context.Context, draft domain.ServerDraft) error
	createFunc   func(ctx context.Context, draft domain.ServerDraft) (*domain.Server, error)
	updateFunc   func(ctx context.Context, id int64, draft domain.ServerDraft) (*domain.Server, error)
	getFunc      func(ctx context.Context, id int64, window domain.Window) (*domain.Server, error)
	listFunc     func(ctx context.Context, q domain.ListQuery) (*domain.Page, error)
	topFunc      func(ctx context.Context, window domain.Window) (*domain.Server, error)
	voteFunc     func(ctx context.Context, id int64, voter string) (*domain.Server, error)
	views        []int64
}

func (m *mockServerService) Validate(ctx context.Context, draft domain.ServerDraft) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, draft)
	}
	return nil
}

func (m *mockServerService) Create(ctx context.Context, draft domain.ServerDraft) (*domain.Server, error) {
	return m.createFunc(ctx, draft)
}

func (m *mockServerService) Update(ctx context.Context, id int64, draft domain.ServerDraft) (*domain.Server, error) {
	return m.updateFunc(ctx, id, draft)
}

func (m *mockServerService) Get(ctx context.Context, id int64, window domain.Window) (*domain.Server, error) {
	return m.getFunc(ctx, id, window)
}

func (m *mockServerService) RecordView(ctx context.Context, id int64) error {
	m.views = append(m.views, id)
	return nil
}

func (m *mockServerService) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	return m.listFunc(ctx, q)
}

func (m *mockServerService) Top(ctx context.Context, window domain.Window) (*domain.Server, error) {
	return m.topFunc(ctx, window)
}

func (m *mockServerService) Vote(ctx context.Context, id int64, voter string) (*domain.Server, error) {
	return m.voteFunc(ctx, id, voter)
}

// mockTagService is a mock implementation of interfaces.TagService
type mockTagService struct {
	tags []domain.Tag
	err  error
}

func (m *mockTagService) List(ctx context.Context) ([]domain.Tag, error) {
	return m.tags, m.err
}

// mockSubmissionService is a mock implementation of interfaces.SubmissionService
type mockSubmissionService struct {
	prepareFunc func(ctx context.Context, draft domain.ServerDraft, serverID int64) (*domain.Submission, error)
	getFunc     func(ctx context.Context, token string) (*domain.Submission, error)
	confirmFunc func(ctx context.Context, token string) (*domain.Confirmation, error)
	cancelled   []string
}

func (m *mockSubmissionService) Prepare(ctx context.Context, draft domain.ServerDraft, serverID int64) (*domain.Submission, error) {
	return m.prepareFunc(ctx, draft, serverID)
}

func (m *mockSubmissionService) Get(ctx context.Context, token string) (*domain.Submission, error) {
	return m.getFunc(ctx, token)
}

func (m *mockSubmissionService) Confirm(ctx context.Context, token string) (*domain.Confirmation, error) {
	return m.confirmFunc(ctx, token)
}

func (m *mockSubmissionService) Cancel(ctx context.Context, token string) error {
	m.cancelled = append(m.cancelled, token)
	return nil
}

// withClientIP stands in for the request logging middleware
func withClientIP(api huma.API, ip string) {
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, middleware.WithClientIP(ctx.Context(), ip)))
	})
}

func sampleServer(id int64) *domain.Server {
	return &domain.Server{
		ID:        id,
		Title:     "Faction Italia PvP",
		Content:   "## Benvenuti\n\nIl miglior server **PvP**.",
		IP:        "play.example.it",
		Cover:     "https://img.example.com/cover.png",
		Tags:      []domain.Tag{{ID: 1, Slug: "pvp", Name: "PvP"}},
		Votes:     4,
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
