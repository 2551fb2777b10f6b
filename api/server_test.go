package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/api/handlers"
	"serverlist-api/pkg/featureflags"
	"serverlist-api/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func TestNewAPI_HasCorrectInfo(t *testing.T) {
	api, router := NewAPI()
	require.NotNil(t, router)

	info := api.OpenAPI().Info
	assert.Equal(t, "Serverlist API", info.Title)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.oai.openapi+json", w.Header().Get("Content-Type"))
}

func TestAPI_DocsEndpoint(t *testing.T) {
	_, router := NewAPI()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/docs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
}

func newRulesAPI(t *testing.T, cfg APIConfig) http.Handler {
	t.Helper()
	api, router, stop := NewAPIWithMiddleware(cfg)
	t.Cleanup(stop)

	rules, err := handlers.NewRulesHandler("# Regole")
	require.NoError(t, err)
	rules.RegisterRoutes(api)
	return router
}

func TestNewAPIWithMiddleware_ServesMetrics(t *testing.T) {
	router := newRulesAPI(t, APIConfig{Logger: nopLogger{}, Metrics: metrics.New()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `route="/healthz"`))
}

func TestNewAPIWithMiddleware_MetricsFlagOff(t *testing.T) {
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{featureflags.MetricsEnabled: false})
	router := newRulesAPI(t, APIConfig{Metrics: metrics.New(), Flags: flags})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewAPIWithMiddleware_RateLimit(t *testing.T) {
	router := newRulesAPI(t, APIConfig{Logger: nopLogger{}, RateLimit: 2, RateWindow: time.Minute})

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = "198.51.100.4:4000"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
