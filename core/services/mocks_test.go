package services

import (
	"bytes"
	"context"
	"io"
	"time"

	"serverlist-api/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
	gets    int
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.gets++
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return nil, nil
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return nil, nil
}

func (m *mockHTTPClient) Put(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return nil, nil
}

func (m *mockHTTPClient) Delete(ctx context.Context, url string) (interfaces.Response, error) {
	return nil, nil
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       []byte
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

// mapCache is a minimal Cache backed by a map
type mapCache struct {
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.items[key]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return v, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.items[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func (m *mapCache) Pop(ctx context.Context, key string) ([]byte, error) {
	v, err := m.Get(ctx, key)
	delete(m.items, key)
	return v, err
}

// mockLogger discards everything
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (mockLogger) Info(msg string, fields map[string]interface{})  {}
func (mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (mockLogger) Error(msg string, fields map[string]interface{}) {}
