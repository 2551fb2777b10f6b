// ABOUTME: Loads everything the home page shows in one call
// ABOUTME: The listing, the tags and the top server are fetched concurrently

package client

import (
	"context"

	"golang.org/x/sync/errgroup"
	"serverlist-api/core/domain"
)

// LoadHome fetches the first page of window, the tags and the top server of
// the month. A month without votes leaves Home.Top nil.
func LoadHome(ctx context.Context, c *Client, window domain.Window) (*Home, error) {
	home := &Home{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := c.ListServers(ctx, ListOptions{Window: window})
		home.Page = page
		return err
	})
	g.Go(func() error {
		tags, err := c.ListTags(ctx)
		home.Tags = tags
		return err
	})
	g.Go(func() error {
		top, err := c.TopServer(ctx, domain.WindowMonth)
		if IsNotFoundError(err) {
			return nil
		}
		home.Top = top
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return home, nil
}
