package servers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"serverlist-api/core/domain"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/listing"
	"serverlist-api/infrastructure/cache/memory"
	"serverlist-api/infrastructure/storage/sqlite"
	"serverlist-api/pkg/featureflags"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// mockEnqueuer records cover jobs
type mockEnqueuer struct {
	mu   sync.Mutex
	jobs []string
	err  error
}

func (m *mockEnqueuer) Enqueue(serverID int64, coverURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, coverURL)
	return nil
}

// mockProber rejects every cover in reject
type mockProber struct {
	reject map[string]bool
	calls  int
}

func (m *mockProber) Probe(ctx context.Context, imageURL string) error {
	m.calls++
	if m.reject[imageURL] {
		return errors.New("not an image")
	}
	return nil
}

// interleavingStore runs during once, right after the first ListServers
// read, so a mutation can land between the read and the cache write
type interleavingStore struct {
	interfaces.Store
	once   sync.Once
	during func()
}

func (s *interleavingStore) ListServers(ctx context.Context, q domain.ListQuery, since time.Time, offset, limit int) ([]*domain.Server, error) {
	servers, err := s.Store.ListServers(ctx, q, since, offset, limit)
	s.once.Do(s.during)
	return servers, err
}

type fixture struct {
	svc      *ServerService
	store    *sqlite.Store
	flags    *featureflags.StaticManager
	enqueuer *mockEnqueuer
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.UpsertTags(context.Background(), []domain.Tag{
		{Slug: "survival", Name: "Survival"},
		{Slug: "pvp", Name: "PvP"},
		{Slug: "minigiochi", Name: "Minigiochi"},
	}))

	f := &fixture{
		store:    store,
		flags:    featureflags.NewStaticManager(featureflags.Defaults),
		enqueuer: &mockEnqueuer{},
		now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	deps := interfaces.Dependencies{Store: store, Logger: nopLogger{}}
	listings := listing.New(memory.NewMemoryCache(), time.Minute, nopLogger{}, nil)
	f.svc = NewServerService(deps, listings, f.flags, Options{PageSize: 2, MaxPageSize: 3})
	f.svc.SetCoverEnqueuer(f.enqueuer)
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func validDraft(title string) domain.ServerDraft {
	content := strings.Repeat("Un server survival con economia e minigiochi. ", 7) +
		"![spawn](https://img.example.com/spawn.png) ![arena](https://img.example.com/arena.png)"
	return domain.ServerDraft{
		Title:   title,
		Content: content,
		IP:      "play.example.it:25565",
		Tags:    []string{"survival", "pvp"},
		Cover:   "https://img.example.com/cover.png",
	}
}
