// ABOUTME: HTTP client for the Serverlist API
// ABOUTME: Wraps every JSON endpoint and turns problem responses into typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"serverlist-api/api/dto/requests"
	"serverlist-api/core/domain"
	"serverlist-api/core/interfaces"
)

// Client talks to a Serverlist API
type Client struct {
	baseURL string
	http    interfaces.HTTPClient
	logger  interfaces.Logger
}

// NewClient creates a new client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()
	for _, opt := range options {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	config.complete()

	return &Client{
		baseURL: config.BaseURL,
		http:    config.HTTPClient,
		logger:  config.Logger,
	}, nil
}

// ListServers returns one page of servers
func (c *Client) ListServers(ctx context.Context, opts ListOptions) (*Page, error) {
	q := url.Values{}
	if opts.Window != "" {
		q.Set("window", string(opts.Window))
	}
	if opts.Sort != "" {
		q.Set("sort", string(opts.Sort))
	}
	if opts.Tag != "" {
		q.Set("tag", opts.Tag)
	}
	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprint(opts.Limit))
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}

	path := "/api/servers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page Page
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TopServer returns the most voted server of window
func (c *Client) TopServer(ctx context.Context, window domain.Window) (*Server, error) {
	path := "/api/servers/top"
	if window != "" {
		path += "?window=" + url.QueryEscape(string(window))
	}

	var srv Server
	if err := c.get(ctx, path, &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

// GetServer returns one server with its rendered description
func (c *Client) GetServer(ctx context.Context, id int64) (*Server, error) {
	var srv Server
	if err := c.get(ctx, "/api/servers/"+formatID(id), &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

// ListTags returns every tag
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var out struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.get(ctx, "/api/tags", &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

// Rules returns the posting rules
func (c *Client) Rules(ctx context.Context) (*Rules, error) {
	var rules Rules
	if err := c.get(ctx, "/api/rules", &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// CreateServer publishes a new server. It is sent exactly once.
func (c *Client) CreateServer(ctx context.Context, draft Draft) (*Server, error) {
	var srv Server
	if err := c.send(ctx, http.MethodPost, "/api/servers", draftRequest(draft), &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

// UpdateServer replaces the editable fields of server id. It is sent
// exactly once.
func (c *Client) UpdateServer(ctx context.Context, id int64, draft Draft) (*Server, error) {
	var srv Server
	if err := c.send(ctx, http.MethodPut, "/api/servers/"+formatID(id), draftRequest(draft), &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

// Vote casts one vote for server id from the calling address
func (c *Client) Vote(ctx context.Context, id int64) (*Server, error) {
	var srv Server
	if err := c.send(ctx, http.MethodPost, "/api/servers/"+formatID(id)+"/votes", nil, &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

// CheckCovers reports, in order, whether each link is a usable cover
func (c *Client) CheckCovers(ctx context.Context, urls ...string) ([]CoverCheck, error) {
	body := struct {
		URLs []string `json:"urls"`
	}{URLs: urls}

	var out struct {
		Results []CoverCheck `json:"results"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/covers/check", body, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func draftRequest(d Draft) requests.ServerDraftRequest {
	return requests.ServerDraftRequest{
		Title:   d.Title,
		Content: d.Content,
		IP:      d.IP,
		Tags:    d.Tags,
		Cover:   d.Cover,
	}
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	resp, err := c.http.Get(ctx, c.baseURL+path)
	if err != nil {
		return c.networkError(http.MethodGet, path, err)
	}
	return c.decode(http.MethodGet, path, resp, dest)
}

func (c *Client) send(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Type: ErrorTypeConfiguration, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	var (
		resp interfaces.Response
		err  error
	)
	switch method {
	case http.MethodPut:
		resp, err = c.http.Put(ctx, c.baseURL+path, reader)
	case http.MethodDelete:
		resp, err = c.http.Delete(ctx, c.baseURL+path)
	default:
		resp, err = c.http.Post(ctx, c.baseURL+path, reader)
	}
	if err != nil {
		return c.networkError(method, path, err)
	}
	return c.decode(method, path, resp, dest)
}

func (c *Client) decode(method, path string, resp interfaces.Response, dest interface{}) error {
	body := resp.Body()
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return c.networkError(method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		apiErr := decodeError(status, data)
		if apiErr.Type == ErrorTypeServer {
			c.logger.Warn("Serverlist API request failed", map[string]interface{}{
				"method": method,
				"path":   path,
				"status": status,
			})
		}
		return apiErr
	}

	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &Error{Type: ErrorTypeServer, Status: status, Message: "invalid response body", Cause: err}
	}
	return nil
}

func (c *Client) networkError(method, path string, err error) error {
	c.logger.Warn("Serverlist API unreachable", map[string]interface{}{
		"method": method,
		"path":   path,
		"error":  err.Error(),
	})
	return &Error{Type: ErrorTypeNetwork, Message: "request failed", Cause: err}
}
