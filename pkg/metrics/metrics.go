// ABOUTME: Prometheus metrics for HTTP traffic, listing mutations, votes and background jobs
// ABOUTME: All recorders are nil-safe so components can run without a registry in tests

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures metric names and registration
type Config struct {
	// Namespace prefixes every metric (default: "serverlist")
	Namespace string

	// Buckets are the request duration histogram buckets
	Buckets []float64

	// Registry receives the collectors. Default: a fresh registry
	Registry *prometheus.Registry
}

// Option configures Config
type Option func(*Config)

// WithNamespace sets the metrics namespace
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics holds the collectors
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	serversCreated   prometheus.Counter
	serversUpdated   prometheus.Counter
	mutationFailures *prometheus.CounterVec
	votesTotal       prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	coverJobs        *prometheus.CounterVec
}

// New registers the collectors and returns them
func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: "serverlist",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"route", "method"}),

		serversCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "servers_created_total",
			Help:      "Servers published",
		}),

		serversUpdated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "servers_updated_total",
			Help:      "Servers edited",
		}),

		mutationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "mutation_failures_total",
			Help:      "Failed create or update operations",
		}, []string{"op"}),

		votesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "votes_total",
			Help:      "Votes recorded",
		}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "listing_cache_lookups_total",
			Help:      "Listing cache lookups by result",
		}, []string{"result"}),

		coverJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "cover_jobs_total",
			Help:      "Cover colour jobs by outcome",
		}, []string{"status"}),
	}
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ServerCreated counts a published server
func (m *Metrics) ServerCreated() {
	if m == nil {
		return
	}
	m.serversCreated.Inc()
}

// ServerUpdated counts an edited server
func (m *Metrics) ServerUpdated() {
	if m == nil {
		return
	}
	m.serversUpdated.Inc()
}

// MutationFailed counts a failed create or update
func (m *Metrics) MutationFailed(op string) {
	if m == nil {
		return
	}
	m.mutationFailures.WithLabelValues(op).Inc()
}

// VoteRecorded counts a vote
func (m *Metrics) VoteRecorded() {
	if m == nil {
		return
	}
	m.votesTotal.Inc()
}

// CacheHit counts a listing cache hit
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a listing cache miss
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// CoverJob counts a processed cover job with status ok or error
func (m *Metrics) CoverJob(status string) {
	if m == nil {
		return
	}
	m.coverJobs.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
