// ABOUTME: Configuration options for the Serverlist API client
// ABOUTME: Provides functional options pattern for flexible client configuration

package client

import (
	"os"
	"strings"
	"time"

	"serverlist-api/core/interfaces"
	"serverlist-api/infrastructure/http/standard"
	"serverlist-api/infrastructure/logger/structured"
)

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:8000"

// Option is a functional option for configuring the client
type Option func(*Config) error

// Config holds the configuration for the client
type Config struct {
	// BaseURL is the origin of the Serverlist API
	BaseURL string

	// HTTPClient performs the requests. Reads may retry, writes must not.
	HTTPClient interfaces.HTTPClient

	// Logger receives request failures
	Logger interfaces.Logger

	// Timeout applies to the default HTTP client
	Timeout time.Duration
}

// WithBaseURL sets the API origin
func WithBaseURL(baseURL string) Option {
	return func(c *Config) error {
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if baseURL == "" {
			return NewError(ErrorTypeConfiguration, "base URL cannot be empty")
		}
		c.BaseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		if client == nil {
			return NewError(ErrorTypeConfiguration, "HTTP client cannot be nil")
		}
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewError(ErrorTypeConfiguration, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return NewError(ErrorTypeConfiguration, "timeout must be positive")
		}
		c.Timeout = timeout
		return nil
	}
}

// UserAgent identifies SDK requests in the API logs
const UserAgent = "serverlist-client/1.0"

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
	}
}

// complete fills the collaborators the options left unset
func (c *Config) complete() {
	if c.HTTPClient == nil {
		c.HTTPClient = standard.NewStandardHTTPClient(c.Timeout).WithUserAgent(UserAgent)
	}
	if c.Logger == nil {
		c.Logger = structured.New(structured.Options{
			Level:  "warn",
			Format: "text",
			Output: os.Stderr,
		})
	}
}
