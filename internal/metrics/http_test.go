package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInstrumentedRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))

	return router, provider
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	t.Run("labels requests with method, route, and status", func(t *testing.T) {
		router, provider := setupInstrumentedRouter(t)
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
		router.POST("/ping", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{})
		})

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))
		require.Equal(t, http.StatusCreated, w.Code)

		output := scrapeMetrics(t, provider)
		assertMetricLine(t, output, "test_app_http_requests_total",
			`method="GET".*path="/ping".*status_code="200"`, "3")
		assertMetricLine(t, output, "test_app_http_requests_total",
			`method="POST".*path="/ping".*status_code="201"`, "1")
		assertMetricLine(t, output, "test_app_http_request_duration_seconds_count",
			`method="GET".*path="/ping".*status_code="200"`, "3")
	})

	t.Run("collapses parameterized paths into the route pattern", func(t *testing.T) {
		router, provider := setupInstrumentedRouter(t)
		router.GET("/attestations/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
		})

		for _, id := range []string{"a", "b", "c"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attestations/"+id, nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		output := scrapeMetrics(t, provider)
		assertMetricLine(t, output, "test_app_http_requests_total",
			`path="/attestations/:id"`, "3")
		assert.NotContains(t, output, `path="/attestations/a"`)
	})

	t.Run("labels unmatched routes as unknown", func(t *testing.T) {
		router, provider := setupInstrumentedRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.Equal(t, http.StatusNotFound, w.Code)

		output := scrapeMetrics(t, provider)
		assertMetricLine(t, output, "test_app_http_requests_total",
			`path="unknown".*status_code="404"`, "1")
	})

	t.Run("degrades to a pass-through when instruments cannot be created", func(t *testing.T) {
		gin.SetMode(gin.TestMode)

		provider, err := NewProvider()
		require.NoError(t, err)

		router := gin.New()
		router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "bad namespace"))
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
