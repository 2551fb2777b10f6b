// ABOUTME: Response DTOs for server, tag, submission and rules endpoints
// ABOUTME: Provides structured responses with JSON serialization

package responses

import "time"

// ServerResponse represents a server in API responses
type ServerResponse struct {
	ID          int64         `json:"id" doc:"Server identifier"`
	Title       string        `json:"title" doc:"Server name"`
	Slug        string        `json:"slug" doc:"URL-safe title"`
	Path        string        `json:"path" doc:"Canonical detail path"`
	Content     string        `json:"content" doc:"Markdown description"`
	ContentHTML string        `json:"content_html,omitempty" doc:"Rendered description, detail responses only"`
	Excerpt     string        `json:"excerpt" doc:"Plain-text preview"`
	IP          string        `json:"ip" doc:"Address players connect to"`
	Cover       string        `json:"cover" doc:"Cover image URL"`
	CoverColor  string        `json:"cover_color,omitempty" doc:"Dominant cover colour as #rrggbb"`
	Tags        []TagResponse `json:"tags" doc:"Tags of the server"`
	Votes       int           `json:"votes" doc:"Votes inside the requested window"`
	Views       int64         `json:"views" doc:"Detail page views"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ServerPageResponse is one page of a server listing
type ServerPageResponse struct {
	Servers    []ServerResponse `json:"servers" doc:"Servers in this page"`
	NextCursor string           `json:"next_cursor,omitempty" doc:"Cursor of the next page"`
	HasMore    bool             `json:"has_more" doc:"Whether another page exists"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	ServerCount int    `json:"server_count,omitempty" doc:"Servers using the tag, tag list only"`
}

// TagsResponse lists every tag
type TagsResponse struct {
	Tags []TagResponse `json:"tags"`
}

// DraftResponse echoes the content of a pending submission
type DraftResponse struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	IP      string   `json:"ip"`
	Tags    []string `json:"tags"`
	Cover   string   `json:"cover"`
}

// SubmissionResponse is a submission waiting for confirmation
type SubmissionResponse struct {
	Token     string        `json:"token" doc:"Token used to confirm or cancel"`
	Draft     DraftResponse `json:"draft"`
	ServerID  int64         `json:"server_id,omitempty" doc:"Server being edited"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ConfirmationResponse is the result of confirming a submission
type ConfirmationResponse struct {
	Server  ServerResponse `json:"server"`
	Updated bool           `json:"updated" doc:"True when an existing server was edited"`
}

// RulesResponse holds the posting rules
type RulesResponse struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// CoverCheckResponse is the outcome of checking one cover link
type CoverCheckResponse struct {
	URL     string `json:"url" doc:"The link that was checked"`
	Status  string `json:"status" enum:"valid,invalid" doc:"Check status"`
	Message string `json:"message,omitempty" doc:"Why the link was rejected"`
}
