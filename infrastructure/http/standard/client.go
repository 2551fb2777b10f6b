// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Reads retry with exponential backoff on 5xx; writes are sent exactly once

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"serverlist-api/core/interfaces"
)

const (
	maxRetries = 3

	// DefaultUserAgent identifies outgoing requests
	DefaultUserAgent = "Serverlist/1.0"
)

// StandardHTTPClient implements the HTTPClient interface using net/http
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration) *StandardHTTPClient {
	return &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent returns the client with a different User-Agent header
func (c *StandardHTTPClient) WithUserAgent(ua string) *StandardHTTPClient {
	c.userAgent = ua
	return c
}

// Get performs an HTTP GET request, retrying on transport errors and 5xx
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}

		if resp.StatusCode < 500 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)

		// Keep the last 5xx response for the caller, close earlier ones
		if attempt < maxRetries-1 {
			resp.Body.Close()
			resp = nil
		}
	}

	if resp == nil {
		return nil, lastErr
	}

	return wrap(resp), nil
}

// Post performs an HTTP POST request with a JSON body. It is never retried.
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

// Put performs an HTTP PUT request with a JSON body. It is never retried.
func (c *StandardHTTPClient) Put(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return c.send(ctx, http.MethodPut, url, body)
}

// Delete performs an HTTP DELETE request. It is never retried.
func (c *StandardHTTPClient) Delete(ctx context.Context, url string) (interfaces.Response, error) {
	return c.send(ctx, http.MethodDelete, url, nil)
}

func (c *StandardHTTPClient) send(ctx context.Context, method, url string, body io.Reader) (interfaces.Response, error) {
	req, err := c.newRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return wrap(resp), nil
}

func (c *StandardHTTPClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func wrap(resp *http.Response) *httpResponse {
	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
