package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProviderWithNamespace", func(t *testing.T) {
		provider, err := NewProvider("tablegate")

		require.NoError(t, err)
		assert.NotNil(t, provider)
		assert.NotNil(t, provider.meterProvider)
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
	})

	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("tablegate")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("tablegate")
	require.NoError(t, err)

	handler := provider.Handler()
	require.NotNil(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("tablegate")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "tablegate")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "entity", "entity_query", "success")
	bm.RecordDuration(ctx, "entity", "entity_query", 25*time.Millisecond, "success")

	// Recorded metrics must show up in the Prometheus exposition output.
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "tablegate_operations_total")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	ctx := context.Background()

	// Must not panic.
	bm.RecordOperation(ctx, "entity", "entity_get", "error")
	bm.RecordDuration(ctx, "entity", "entity_get", time.Second, "error")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("tablegate")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "tablegate"))
	router.GET("/v1/get", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/v1/get", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsW := httptest.NewRecorder()
	provider.Handler().ServeHTTP(metricsW, metricsReq)
	assert.Contains(t, metricsW.Body.String(), "tablegate_http_requests_total")
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/v1/get", sanitizePath("/v1/get"))
	assert.Equal(t, "unknown", sanitizePath(""))
}
