// ABOUTME: Public types returned by the Serverlist API client
// ABOUTME: Mirrors the JSON the API serves so callers need no extra mapping

package client

import (
	"strconv"

	"serverlist-api/api/dto/responses"
	"serverlist-api/core/domain"
)

// Server is a published server as served by the API
type Server = responses.ServerResponse

// Page is one page of a server listing
type Page = responses.ServerPageResponse

// Tag is a category with the number of servers using it
type Tag = responses.TagResponse

// Rules holds the posting rules
type Rules = responses.RulesResponse

// Draft is the user-supplied part of a server
type Draft = domain.ServerDraft

// CoverCheck is the outcome of checking one cover link
type CoverCheck = responses.CoverCheckResponse

// ListOptions filters and orders a server listing. Zero values use the
// server defaults.
type ListOptions struct {
	Window domain.Window
	Sort   domain.Sort
	Tag    string
	Limit  int
	Cursor string
}

// Home is the data the home page needs
type Home struct {
	Page *Page
	Tags []Tag

	// Top is the most voted server of the window, nil when nobody voted
	Top *Server
}

// Result describes a server after a successful submit
type Result struct {
	ID    int64
	Title string
	Path  string
}

func resultOf(s *Server) *Result {
	return &Result{
		ID:    s.ID,
		Title: s.Title,
		Path:  domain.ServerPath(s.ID, s.Title),
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
