// ABOUTME: Listing query, page and opaque cursor types for paginated server lists
// ABOUTME: Cursors bind an offset to the query they were issued for

package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sort selects the ordering of a listing
type Sort string

const (
	// SortPopular orders by votes in window, views, recency, id
	SortPopular Sort = "popular"

	// SortRecent orders by creation time, id
	SortRecent Sort = "recent"
)

// ParseSort parses a sort name; empty means popular
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "":
		return SortPopular, nil
	case SortPopular, SortRecent:
		return Sort(s), nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// ListQuery describes one page request of the server listing
type ListQuery struct {
	Window       Window
	Sort         Sort
	Tag          string
	CreatedAfter time.Time
	Limit        int
	Cursor       string
}

// Fingerprint identifies the ordering and filters of the query, ignoring
// the page position. Cursors carry it so they cannot be replayed against a
// different listing.
func (q ListQuery) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(q.Window))
	b.WriteByte('|')
	b.WriteString(string(q.Sort))
	b.WriteByte('|')
	b.WriteString(q.Tag)
	b.WriteByte('|')
	if !q.CreatedAfter.IsZero() {
		b.WriteString(q.CreatedAfter.UTC().Format(time.RFC3339))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:6])
}

// CacheKey identifies the full page request
func (q ListQuery) CacheKey(offset int) string {
	return fmt.Sprintf("servers:%s:%d:%d", q.Fingerprint(), offset, q.Limit)
}

// Page is one batch of a listing
type Page struct {
	Servers    []*Server
	NextCursor string
	HasMore    bool
}

// ErrInvalidCursor is returned for malformed or mismatched cursors
var ErrInvalidCursor = errors.New("invalid cursor")

type cursorPayload struct {
	Offset int    `json:"o"`
	Query  string `json:"q"`
}

// EncodeCursor builds the opaque token pointing at offset within q
func EncodeCursor(q ListQuery, offset int) string {
	data, _ := json.Marshal(cursorPayload{Offset: offset, Query: q.Fingerprint()})
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor returns the offset a cursor points at. An empty cursor is the
// first page.
func DecodeCursor(q ListQuery, cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	var p cursorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return 0, ErrInvalidCursor
	}

	if p.Offset < 0 || p.Query != q.Fingerprint() {
		return 0, ErrInvalidCursor
	}

	return p.Offset, nil
}
