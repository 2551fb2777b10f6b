package client

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"serverlist-api/api"
	"serverlist-api/api/handlers"
	"serverlist-api/core/domain"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/listing"
	"serverlist-api/core/servers"
	"serverlist-api/core/tags"
	"serverlist-api/infrastructure/cache/memory"
	"serverlist-api/infrastructure/storage/sqlite"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// mockHTTPClient records every call and answers with the configured funcs
type mockHTTPClient struct {
	mu    sync.Mutex
	calls []string

	get  func(url string) (interfaces.Response, error)
	post func(url string, body []byte) (interfaces.Response, error)
	put  func(url string, body []byte) (interfaces.Response, error)
}

func (m *mockHTTPClient) record(method, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method+" "+url)
}

func (m *mockHTTPClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.record("GET", url)
	return m.get(url)
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	m.record("POST", url)
	data, _ := io.ReadAll(body)
	return m.post(url, data)
}

func (m *mockHTTPClient) Put(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	m.record("PUT", url)
	data, _ := io.ReadAll(body)
	return m.put(url, data)
}

func (m *mockHTTPClient) Delete(ctx context.Context, url string) (interfaces.Response, error) {
	m.record("DELETE", url)
	return jsonResponse(204, ""), nil
}

type mockResponse struct {
	status int
	body   string
}

func (r *mockResponse) StatusCode() int          { return r.status }
func (r *mockResponse) Body() io.ReadCloser      { return io.NopCloser(bytes.NewBufferString(r.body)) }
func (r *mockResponse) Header(key string) string { return "" }

func jsonResponse(status int, body string) interfaces.Response {
	return &mockResponse{status: status, body: body}
}

// mockConfirmer answers every prompt with answer
type mockConfirmer struct {
	answer  bool
	prompts []string
}

func (m *mockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, nil
}

// mockNotifier records notices as "kind: message"
type mockNotifier struct {
	events   []string
	duration time.Duration
}

func (m *mockNotifier) Loading(msg string) { m.events = append(m.events, "loading: "+msg) }
func (m *mockNotifier) Success(msg string) { m.events = append(m.events, "success: "+msg) }
func (m *mockNotifier) Error(msg string, d time.Duration) {
	m.events = append(m.events, "error: "+msg)
	m.duration = d
}

// newTestAPI serves the real JSON API over sqlite and returns a client for it
func newTestAPI(t *testing.T) (*Client, *servers.ServerService) {
	t.Helper()

	store, err := sqlite.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.UpsertTags(context.Background(), []domain.Tag{
		{Slug: "survival", Name: "Survival"},
		{Slug: "pvp", Name: "PvP"},
	}))

	cache := memory.NewMemoryCache()
	deps := interfaces.Dependencies{Store: store, Cache: cache, Logger: nopLogger{}}
	listings := listing.New(cache, time.Minute, nopLogger{}, nil)
	serverSvc := servers.NewServerService(deps, listings, nil, servers.Options{PageSize: 2, MaxPageSize: 10})

	humaAPI, router, stop := api.NewAPIWithMiddleware(api.APIConfig{Logger: nopLogger{}})
	t.Cleanup(stop)

	handlers.NewServerHandler(serverSvc, nopLogger{}).RegisterRoutes(humaAPI)
	handlers.NewTagHandler(tags.NewTagService(deps, listings)).RegisterRoutes(humaAPI)
	rules, err := handlers.NewRulesHandler("# Regole\n\nNiente spam.")
	require.NoError(t, err)
	rules.RegisterRoutes(humaAPI)
	handlers.NewCoverHandler(nil).RegisterRoutes(humaAPI)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := NewClient(WithBaseURL(srv.URL), WithLogger(nopLogger{}))
	require.NoError(t, err)
	return c, serverSvc
}

func validDraft(title string) Draft {
	content := strings.Repeat("Un server survival con economia e minigiochi. ", 7) +
		"![spawn](https://img.example.com/spawn.png) ![arena](https://img.example.com/arena.png)"
	return Draft{
		Title:   title,
		Content: content,
		IP:      "play.example.it:25565",
		Tags:    []string{"survival"},
		Cover:   "https://img.example.com/cover.png",
	}
}
