// ABOUTME: Request DTOs for server, vote and submission endpoints
// ABOUTME: Field rules are enforced by the core validator so messages stay field-scoped

package requests

import (
	"fmt"
	"time"

	"serverlist-api/core/domain"
)

// ServerDraftRequest is the editable content of a server. Every field is
// optional at the schema level so missing fields get the same messages as
// invalid ones.
type ServerDraftRequest struct {
	Title   string   `json:"title,omitempty" doc:"Server name, 10 to 200 characters" example:"Faction Italia PvP"`
	Content string   `json:"content,omitempty" doc:"Markdown description with at least two images"`
	IP      string   `json:"ip,omitempty" doc:"Address players connect to, host or host:port" example:"play.example.it:25565"`
	Tags    []string `json:"tags,omitempty" doc:"Tag slugs, at most 10"`
	Cover   string   `json:"cover,omitempty" doc:"https link to a jpg or png cover image"`
}

// ToDomain converts the request into a draft
func (r ServerDraftRequest) ToDomain() domain.ServerDraft {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.ServerDraft{
		Title:   r.Title,
		Content: r.Content,
		IP:      r.IP,
		Tags:    tags,
		Cover:   r.Cover,
	}
}

// SubmissionRequest prepares a create (no server id) or an update
type SubmissionRequest struct {
	Draft    ServerDraftRequest `json:"draft" doc:"Server content to confirm"`
	ServerID int64              `json:"server_id,omitempty" minimum:"0" doc:"Server being edited, omitted for a new server"`
}

// ListQuery holds the query parameters of the server listing
type ListQuery struct {
	Window       string `query:"window" enum:"day,week,month,all" doc:"Popularity window (default month)"`
	Sort         string `query:"sort" enum:"popular,recent" doc:"Ordering (default popular)"`
	Tag          string `query:"tag" doc:"Only servers with this tag slug"`
	CreatedAfter string `query:"created_after" doc:"Only servers created after this RFC 3339 time or date"`
	Limit        int    `query:"limit" minimum:"0" doc:"Page size, capped by the server"`
	Cursor       string `query:"cursor" doc:"Opaque cursor from a previous page"`
}

// ToDomain converts the parameters into a listing query
func (q ListQuery) ToDomain() (domain.ListQuery, error) {
	out := domain.ListQuery{
		Window: domain.Window(q.Window),
		Sort:   domain.Sort(q.Sort),
		Tag:    q.Tag,
		Limit:  q.Limit,
		Cursor: q.Cursor,
	}

	if q.CreatedAfter != "" {
		t, err := ParseTime(q.CreatedAfter)
		if err != nil {
			return out, err
		}
		out.CreatedAfter = t
	}

	return out, nil
}

// ParseTime accepts an RFC 3339 timestamp or a plain date
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}
