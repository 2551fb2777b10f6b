// ABOUTME: Prometheus middleware records request counts and latencies per route
// ABOUTME: Routes are labelled with the chi pattern so ids do not explode cardinality

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"serverlist-api/pkg/metrics"
)

// MetricsMiddleware observes every request in m
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveRequest(route, r.Method, wrapped.statusCode, time.Since(start))
		})
	}
}
