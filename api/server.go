// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, middleware ordering and the metrics endpoint

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"serverlist-api/api/middleware"
	"serverlist-api/core/interfaces"
	"serverlist-api/pkg/featureflags"
	"serverlist-api/pkg/metrics"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger     interfaces.Logger
	Metrics    *metrics.Metrics
	Flags      featureflags.Manager
	RateLimit  int           // requests per window
	RateWindow time.Duration // rate limit window

	// TrustedProxies may set the client address through forwarding
	// headers; nil uses the peer address only
	TrustedProxies *middleware.TrustedProxies
}

// NewAPI creates and configures a new Huma API instance
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	router.Use(corsHandler())
	return humachi.New(router, apiConfig()), router
}

// NewAPIWithMiddleware creates a new API with middleware configured. The
// returned stop function releases the rate limiter.
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router, func()) {
	router := chi.NewRouter()
	stop := func() {}

	flags := cfg.Flags
	if flags == nil {
		flags = featureflags.NewStaticManager(featureflags.Defaults)
	}
	ctx := context.Background()

	// CORS should be first
	router.Use(corsHandler())

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger, cfg.TrustedProxies))
	}

	metricsOn := cfg.Metrics != nil && flags.IsEnabled(ctx, featureflags.MetricsEnabled)
	if metricsOn {
		router.Use(middleware.MetricsMiddleware(cfg.Metrics))
	}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 && flags.IsEnabled(ctx, featureflags.RateLimitEnabled) {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(limiter))
		stop = limiter.Stop
	}

	if metricsOn {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	return humachi.New(router, apiConfig()), router, stop
}

func apiConfig() huma.Config {
	config := huma.DefaultConfig("Serverlist API", "1.0.0")
	config.Info.Description = "API for publishing, browsing and voting game servers"
	return config
}

func corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}
