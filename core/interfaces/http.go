package interfaces

import (
	"context"
	"io"
)

// HTTPClient defines the interface for making HTTP requests.
// This abstraction allows for easy mocking in tests and switching between
// different HTTP client implementations.
//
// Only Get retries; Post and Put are sent exactly once so that a mutation is
// never duplicated by the transport.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	Get(ctx context.Context, url string) (Response, error)

	// Post performs an HTTP POST request with a JSON body.
	Post(ctx context.Context, url string, body io.Reader) (Response, error)

	// Put performs an HTTP PUT request with a JSON body.
	Put(ctx context.Context, url string, body io.Reader) (Response, error)

	// Delete performs an HTTP DELETE request.
	Delete(ctx context.Context, url string) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Header names are case-insensitive.
	Header(key string) string
}
