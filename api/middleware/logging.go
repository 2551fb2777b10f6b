// ABOUTME: Request logging middleware for API and page endpoints
// ABOUTME: Logs request details, response status and timing, and tags the context with request id and client IP

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"serverlist-api/core/interfaces"
)

// slowRequest is the duration after which a request is logged as a warning
const slowRequest = 5 * time.Second

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

type requestIDKey struct{}

type clientIPKey struct{}

// RequestIDFromContext returns the id assigned by RequestLoggingMiddleware
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ClientIPFromContext returns the client address recorded for the request
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// WithClientIP stores a client address in ctx
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// RequestLoggingMiddleware creates a middleware that logs all requests.
// Forwarding headers are only read from peers in proxies; nil trusts none.
func RequestLoggingMiddleware(logger interfaces.Logger, proxies *TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			ip := proxies.ClientIP(r)
			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			ctx = WithClientIP(ctx, ip)
			r = r.WithContext(ctx)

			start := time.Now()
			wrapped := wrap(w)

			logger.Debug("Request started", map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  ip,
				"user_agent": r.UserAgent(),
			})

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			fields := ResponseLogFields(wrapped.statusCode, duration)
			fields["request_id"] = requestID
			fields["method"] = r.Method
			fields["path"] = r.URL.Path

			switch {
			case wrapped.statusCode >= 500:
				logger.Error("Request failed with server error", fields)
			case duration > slowRequest:
				logger.Warn("Slow request detected", fields)
			default:
				logger.Info("Request completed", fields)
			}
		})
	}
}

// ResponseLogFields creates log fields for a response
func ResponseLogFields(statusCode int, duration time.Duration) map[string]interface{} {
	return map[string]interface{}{
		"status":      statusCode,
		"duration":    duration.String(),
		"duration_ms": duration.Milliseconds(),
		"status_text": fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
	}
}
