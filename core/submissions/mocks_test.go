package submissions

import (
	"context"
	"sync"

	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
)

// mockServerService is a mock implementation of interfaces.ServerService
type mockServerService struct {
	mu           sync.Mutex
	validateFunc func(ctx context.Context, draft domain.ServerDraft) error
	existing     map[int64]bool
	creates      int
	updates      int
	lastDraft    domain.ServerDraft
}

func (m *mockServerService) Validate(ctx context.Context, draft domain.ServerDraft) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, draft)
	}
	return nil
}

func (m *mockServerService) Create(ctx context.Context, draft domain.ServerDraft) (*domain.Server, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	m.lastDraft = draft
	return &domain.Server{ID: int64(100 + m.creates), Title: draft.Title}, nil
}

func (m *mockServerService) Update(ctx context.Context, id int64, draft domain.ServerDraft) (*domain.Server, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.lastDraft = draft
	return &domain.Server{ID: id, Title: draft.Title}, nil
}

func (m *mockServerService) Get(ctx context.Context, id int64, window domain.Window) (*domain.Server, error) {
	if m.existing[id] {
		return &domain.Server{ID: id}, nil
	}
	return nil, &coreerrors.NotFoundError{Resource: "server", ID: "missing"}
}

func (m *mockServerService) RecordView(ctx context.Context, id int64) error {
	return nil
}

func (m *mockServerService) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	return &domain.Page{}, nil
}

func (m *mockServerService) Top(ctx context.Context, window domain.Window) (*domain.Server, error) {
	return nil, &coreerrors.NotFoundError{Resource: "top server", ID: string(window)}
}

func (m *mockServerService) Vote(ctx context.Context, id int64, voter string) (*domain.Server, error) {
	return nil, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
