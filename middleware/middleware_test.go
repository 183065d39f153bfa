package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/stats"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	router := setupTestRouter()
	router.Use(ErrorHandler(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("index out of range")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An unexpected error occurred","message":"index out of range"}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter()
	limiter := NewRateLimiter(1, 2)
	router.Use(limiter.RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)

	limited := request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later."}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, request("10.0.0.2").Code, "buckets are per client")
}

func TestRateLimiterPrune(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.limiter("10.0.0.1")
	now = now.Add(idleClientTTL + time.Minute)
	limiter.limiter("10.0.0.2")

	assert.Equal(t, 1, limiter.Prune())
	assert.Len(t, limiter.clients, 1)
	assert.Contains(t, limiter.clients, "10.0.0.2")
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "trace-123", w.Body.String())
	})
}

func TestCORS(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.POST("/seo/report", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name           string
		method         string
		origin         string
		wantStatus     int
		wantCORSHeader bool
	}{
		{"simple POST request with origin", http.MethodPost, "http://localhost:3000", http.StatusOK, true},
		{"preflight OPTIONS request", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, true},
		{"no origin header", http.MethodPost, "", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/seo/report", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORSHeader {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestStatsMiddleware(t *testing.T) {
	traffic, err := stats.NewTraffic(filepath.Join(t.TempDir(), "traffic.json"))
	require.NoError(t, err)

	router := setupTestRouter()
	router.Use(StatsMiddleware(traffic, zap.NewNop()))
	router.POST("/seo/report", func(c *gin.Context) {
		c.Set(AnalyzedURLKey, "https://example.com/pricing")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL format"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/seo/report", strings.NewReader("{}")))

	assert.Equal(t, 1, traffic.Requests(), "only analysis routes are tracked")
	assert.Equal(t, 1, traffic.UniqueVisitorsCount())
	assert.InDelta(t, 100.0, traffic.ErrorRate(), 0.001)
	assert.Equal(t, []stats.URLCount{{URL: "https://example.com/pricing", Count: 1}}, traffic.TopURLs(5))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	router := setupTestRouter()
	router.Use(metrics.Handler())
	router.GET("/api/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	metrics.RecordAnalysis("technical-audit", "ok")
	metrics.RecordAnalysis("technical-audit", "fetch")

	w := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `seo_http_requests_total{method="GET",path="/api/health",status="200"} 1`)
	assert.Contains(t, body, `seo_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, `seo_analyses_total{kind="technical-audit",outcome="fetch"} 1`)
	assert.Contains(t, body, `seo_analyses_total{kind="technical-audit",outcome="ok"} 1`)
	assert.Contains(t, body, `seo_http_request_duration_seconds_count{method="GET",path="/api/health"} 1`)
}
