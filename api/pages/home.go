// ABOUTME: Home page handler listing servers by popularity with the top server of the month
// ABOUTME: Loads the listing, the tags and the top server concurrently

package pages

import (
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
)

type homePage struct {
	base
	Top        *domain.Server
	Tags       []domain.Tag
	ActiveTag  string
	Servers    []*domain.Server
	HasMore    bool
	NextCursor string

	// Query is the listing query the load-more script repeats with each cursor
	Query string
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := domain.ListQuery{
		Window: domain.Window(params.Get("window")),
		Sort:   domain.Sort(params.Get("sort")),
		Tag:    params.Get("tag"),
	}

	var (
		page *domain.Page
		tags []domain.Tag
		top  *domain.Server
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		page, err = p.cfg.Servers.List(ctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = p.cfg.Tags.List(ctx)
		return err
	})
	g.Go(func() error {
		srv, err := p.cfg.Servers.Top(ctx, domain.WindowMonth)
		if coreerrors.IsNotFound(err) {
			return nil
		}
		top = srv
		return err
	})

	if err := g.Wait(); err != nil {
		if coreerrors.IsValidation(err) {
			p.renderError(w, r, http.StatusBadRequest, "Filtro non valido.")
			return
		}
		p.internalError(w, r, "Failed to load home page", err)
		return
	}

	p.render(w, r, http.StatusOK, "home", homePage{
		base:       p.base(r, ""),
		Top:        top,
		Tags:       tags,
		ActiveTag:  q.Tag,
		Servers:    page.Servers,
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
		Query:      listingQuery(q),
	})
}

// listingQuery encodes the filters of q for /api/servers
func listingQuery(q domain.ListQuery) string {
	v := url.Values{}
	if q.Window != "" {
		v.Set("window", string(q.Window))
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	return v.Encode()
}
