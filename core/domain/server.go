// ABOUTME: Server domain model represents a published listing with its tags and popularity
// ABOUTME: Provides slug and canonical path helpers used by routes and redirects

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Server is a listing a user publishes: a game server with a description,
// an address players connect to and a cover image.
type Server struct {
	// ID is the storage-assigned identifier
	ID int64

	// Title is the display name of the server
	Title string

	// Content is the markdown description
	Content string

	// IP is the address players connect to (host or host:port)
	IP string

	// Cover is the URL of the promotional image shown on cards
	Cover string

	// CoverColor is the dominant cover colour as #rrggbb, empty until extracted
	CoverColor string

	// Tags are the categories the server is listed under
	Tags []Tag

	// Votes counts the votes cast inside the requested popularity window
	Votes int

	// Views counts detail page views
	Views int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slug returns the URL-safe form of the title
func (s *Server) Slug() string {
	return Slugify(s.Title)
}

// Path returns the canonical detail route for the server
func (s *Server) Path() string {
	return ServerPath(s.ID, s.Title)
}

// TagSlugs returns the slugs of the server's tags in order
func (s *Server) TagSlugs() []string {
	out := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		out = append(out, t.Slug)
	}
	return out
}

// Draft returns the editable fields of the server, used to prefill edit forms
func (s *Server) Draft() ServerDraft {
	return ServerDraft{
		Title:   s.Title,
		Content: s.Content,
		IP:      s.IP,
		Tags:    s.TagSlugs(),
		Cover:   s.Cover,
	}
}

// Slugify turns a title into the slug used in detail routes
func Slugify(title string) string {
	out := slug.MakeLang(title, "it")
	if out == "" {
		return "server"
	}
	return out
}

// ServerPath builds /server/{id}/{slug}
func ServerPath(id int64, title string) string {
	return fmt.Sprintf("/server/%d/%s", id, Slugify(title))
}

// ServerDraft is the user-supplied part of a server, validated before any
// create or update.
type ServerDraft struct {
	Title   string   `json:"title" validate:"required,min=10,max=200"`
	Content string   `json:"content" validate:"required,min=280,max=10000,md_images=2"`
	IP      string   `json:"ip" validate:"required,server_address"`
	Tags    []string `json:"tags" validate:"max=10,dive,required"`
	Cover   string   `json:"cover" validate:"required,cover_image"`
}

// Normalize trims surrounding whitespace and removes empty or repeated tags
func (d *ServerDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.IP = strings.TrimSpace(d.IP)
	d.Cover = strings.TrimSpace(d.Cover)

	if len(d.Tags) == 0 {
		d.Tags = []string{}
		return
	}

	seen := make(map[string]bool, len(d.Tags))
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	d.Tags = tags
}
