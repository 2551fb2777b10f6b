// ABOUTME: RSS feed of the most recently posted servers
// ABOUTME: Built with gorilla/feeds and served only when the rss_feed flag is on

package pages

import (
	"net/http"
	"strings"

	"github.com/gorilla/feeds"
	"serverlist-api/core/domain"
	"serverlist-api/core/render"
	"serverlist-api/pkg/featureflags"
)

// FeedSize is the number of servers in /feed.xml
const FeedSize = 20

func (p *Pages) feed(w http.ResponseWriter, r *http.Request) {
	if !p.cfg.Flags.IsEnabled(r.Context(), featureflags.RSSFeed) {
		p.notFound(w, r)
		return
	}

	page, err := p.cfg.Servers.List(r.Context(), domain.ListQuery{
		Window: domain.WindowAll,
		Sort:   domain.SortRecent,
		Limit:  FeedSize,
	})
	if err != nil {
		p.internalError(w, r, "Failed to load feed", err)
		return
	}

	baseURL := strings.TrimSuffix(p.cfg.BaseURL, "/")
	feed := &feeds.Feed{
		Title:       "Serverlist",
		Link:        &feeds.Link{Href: baseURL + "/"},
		Description: "Gli ultimi server postati",
		Created:     p.now(),
	}

	for _, srv := range page.Servers {
		link := baseURL + srv.Path()
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       srv.Title,
			Link:        &feeds.Link{Href: link},
			Description: render.Excerpt(srv.Content, excerptLength),
			Created:     srv.CreatedAt,
			Updated:     srv.UpdatedAt,
		})
	}
	if len(page.Servers) > 0 {
		feed.Created = page.Servers[0].CreatedAt
	}

	rss, err := feed.ToRss()
	if err != nil {
		p.internalError(w, r, "Failed to encode feed", err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}
