package standard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewStandardHTTPClient(5 * time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body().Close()

	body, _ := io.ReadAll(resp.Body())
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "application/json", resp.Header("content-type"))
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestStandardHTTPClient_WithUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewStandardHTTPClient(time.Second).WithUserAgent("serverlist-cli/1.0")
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body().Close()

	assert.Equal(t, "serverlist-cli/1.0", got)
}

func TestStandardHTTPClient_Get_Retry503(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewStandardHTTPClient(5 * time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body().Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestStandardHTTPClient_Get_MaxRetriesReturnsLastResponse(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewStandardHTTPClient(5 * time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body().Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode())
	assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&attempts))
}

func TestStandardHTTPClient_Get_NoRetryOn4xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewStandardHTTPClient(5 * time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body().Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestStandardHTTPClient_Get_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewStandardHTTPClient(5 * time.Second)
	_, err := client.Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestStandardHTTPClient_Get_InvalidURL(t *testing.T) {
	client := NewStandardHTTPClient(time.Second)
	_, err := client.Get(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestStandardHTTPClient_MutationsAreNotRetried(t *testing.T) {
	tests := []struct {
		method string
		call   func(c *StandardHTTPClient, url string) error
	}{
		{http.MethodPost, func(c *StandardHTTPClient, url string) error {
			resp, err := c.Post(context.Background(), url, strings.NewReader(`{"a":1}`))
			if err == nil {
				resp.Body().Close()
			}
			return err
		}},
		{http.MethodPut, func(c *StandardHTTPClient, url string) error {
			resp, err := c.Put(context.Background(), url, strings.NewReader(`{"a":1}`))
			if err == nil {
				resp.Body().Close()
			}
			return err
		}},
		{http.MethodDelete, func(c *StandardHTTPClient, url string) error {
			resp, err := c.Delete(context.Background(), url)
			if err == nil {
				resp.Body().Close()
			}
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				assert.Equal(t, tt.method, r.Method)
				if r.Method != http.MethodDelete {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				}
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			require.NoError(t, tt.call(NewStandardHTTPClient(time.Second), server.URL))
			assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
		})
	}
}
