// Package api provides the HTTP layer of the Serverlist application.
// JSON endpoints are served by Huma on a chi router, which gives OpenAPI
// documentation and request validation from struct tags. The same router
// carries the server-rendered HTML pages from the pages sub-package.
//
// # Architecture
//
// - server.go: Huma API configuration and middleware setup
// - handlers/: JSON handlers for servers, votes, tags, submissions and rules
// - pages/: HTML pages, the RSS feed and static assets
// - dto/: request and response bodies and their mappers
// - middleware/: request logging, rate limiting, metrics and client IPs
//
// The OpenAPI document is served at /openapi.json and the docs UI at /docs.
//
// # Usage Example
//
//	humaAPI, router, stop := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//	defer stop()
//
//	handlers.NewServerHandler(serverService, logger).RegisterRoutes(humaAPI)
//	handlers.NewTagHandler(tagService).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Validation failures carry one
// entry per field with the Italian message shown to users:
//
//	{
//	    "status": 400,
//	    "title": "Bad Request",
//	    "detail": "Validation failed",
//	    "errors": [{"message": "Il titolo deve essere almeno 10 caratteri.", "location": "body.title"}]
//	}
package api
