// ABOUTME: Append-only infinite scroll over the server listing
// ABOUTME: Fetches the next page when a load-more sentinel becomes visible, one request at a time

package client

import (
	"context"
	"sync"
)

// Feed walks a listing page by page. It cannot be restarted: create a new
// Feed for a new query. Offset cursors shift when votes reorder the listing
// between two fetches, so a server already loaded is never appended again.
type Feed struct {
	client *Client
	opts   ListOptions

	mu       sync.Mutex
	items    []Server
	seen     map[int64]bool
	cursor   string
	hasNext  bool
	inFlight bool
}

// NewFeed creates a feed for opts. Nothing is fetched until the first call
// to FetchNextPage or OnSentinelVisible.
func NewFeed(c *Client, opts ListOptions) *Feed {
	return &Feed{
		client:  c,
		opts:    opts,
		seen:    make(map[int64]bool),
		cursor:  opts.Cursor,
		hasNext: true,
	}
}

// HasNextPage reports whether another page can be fetched
func (f *Feed) HasNextPage() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasNext
}

// IsFetching reports whether a page request is in flight
func (f *Feed) IsFetching() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Items returns a copy of every server loaded so far, in listing order
func (f *Feed) Items() []Server {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Server, len(f.items))
	copy(out, f.items)
	return out
}

// FetchNextPage loads the next page. fetched is false when there is no next
// page or another fetch is already running.
func (f *Feed) FetchNextPage(ctx context.Context) (fetched bool, err error) {
	f.mu.Lock()
	if !f.hasNext || f.inFlight {
		f.mu.Unlock()
		return false, nil
	}
	f.inFlight = true
	opts := f.opts
	opts.Cursor = f.cursor
	f.mu.Unlock()

	page, err := f.client.ListServers(ctx, opts)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		return false, err
	}

	for _, srv := range page.Servers {
		if f.seen[srv.ID] {
			continue
		}
		f.seen[srv.ID] = true
		f.items = append(f.items, srv)
	}
	f.cursor = page.NextCursor
	f.hasNext = page.HasMore && page.NextCursor != ""
	return true, nil
}

// OnSentinelVisible handles one intersection of the load-more sentinel. It
// triggers at most one fetch and does nothing while a fetch is in flight or
// when the listing is exhausted.
func (f *Feed) OnSentinelVisible(ctx context.Context) (bool, error) {
	return f.FetchNextPage(ctx)
}

// Watch consumes visibility updates of the sentinel. Every false to true
// edge counts as one intersection. It returns when visible is closed, ctx
// is done, the listing is exhausted, or a fetch fails.
func (f *Feed) Watch(ctx context.Context, visible <-chan bool) error {
	wasVisible := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-visible:
			if !ok {
				return nil
			}
			edge := v && !wasVisible
			wasVisible = v
			if !edge {
				continue
			}
			if _, err := f.OnSentinelVisible(ctx); err != nil {
				return err
			}
			if !f.HasNextPage() {
				return nil
			}
		}
	}
}
