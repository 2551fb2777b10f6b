// Package core contains the business logic of the Serverlist API.
// It does not depend on any web framework; storage, caching, HTTP and
// logging are injected through the interfaces package.
//
// The core package is organized into several sub-packages:
//
// - domain: Server, Tag, Vote, Submission, windows and listing queries
// - servers: listing, ranking, voting and mutation of servers
// - tags: the tag catalogue and its seeding
// - submissions: the prepare then confirm gate in front of every write
// - listing: cached listing pages keyed by query fingerprint
// - validation: draft rules with Italian field messages
// - render: markdown rendering and plain-text excerpts
// - services: cover probing and dominant colour extraction
// - workers: background cover colour worker pool
// - errors: typed errors mapped to HTTP statuses by the api package
// - interfaces: contracts for external dependencies (cache, HTTP, logger, store)
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	    Store:      myStore,      // implements interfaces.Store
//	}
//
//	listings := listing.New(myCache, time.Minute, myLogger, nil)
//	svc := servers.NewServerService(deps, listings, flags, servers.Options{})
//
//	page, err := svc.List(ctx, domain.ListQuery{
//	    Window: domain.WindowWeek,
//	    Sort:   domain.SortPopular,
//	})
package core
