package httpserver_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/analyzer/internal/httpserver"
	"github.com/jonesrussell/analyzer/internal/logger"
)

func newHealthRouter(t *testing.T, checks map[string]httpserver.HealthChecker) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	httpserver.RegisterHealthRoutes(router, httpserver.HealthOptions{
		ServiceName:    "analyzer",
		ServiceVersion: "test",
		Checks:         checks,
	})

	return router
}

func getHealth(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, httpserver.HealthResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	router.ServeHTTP(w, req)

	var resp httpserver.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}

	return w, resp
}

func TestLivenessEndpoint(t *testing.T) {
	t.Parallel()

	router := newHealthRouter(t, nil)

	w, resp := getHealth(t, router, "/health/live")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health/live status = %d, want 200", w.Code)
	}
	if resp.Status != httpserver.HealthStatusHealthy {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Service != "analyzer" || resp.Version != "test" {
		t.Errorf("service/version = %q/%q", resp.Service, resp.Version)
	}
	if resp.Uptime == "" {
		t.Error("uptime is empty, want a formatted duration")
	}
}

func TestReadinessEndpoint_NoChecks(t *testing.T) {
	t.Parallel()

	router := newHealthRouter(t, nil)

	w, resp := getHealth(t, router, "/health/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health/ready status = %d, want 200", w.Code)
	}
	if resp.Status != httpserver.HealthStatusHealthy {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if len(resp.Checks) != 0 {
		t.Errorf("checks = %v, want none", resp.Checks)
	}
}

func TestReadinessEndpoint_AllHealthy(t *testing.T) {
	t.Parallel()

	router := newHealthRouter(t, map[string]httpserver.HealthChecker{
		"database": httpserver.DatabaseHealthChecker(func() error { return nil }),
		"redis":    httpserver.RedisHealthChecker(func() error { return nil }),
	})

	w, resp := getHealth(t, router, "/health/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health/ready status = %d, want 200", w.Code)
	}
	if resp.Status != httpserver.HealthStatusHealthy {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	db := resp.Checks["database"]
	if db.Status != httpserver.HealthStatusHealthy || db.Message != "Database connection OK" {
		t.Errorf("database check = %+v", db)
	}
	if db.Latency == "" {
		t.Error("database check latency is empty")
	}
}

func TestReadinessEndpoint_DegradedStaysAvailable(t *testing.T) {
	t.Parallel()

	// A failing cache degrades the service but does not take it out of
	// rotation.
	router := newHealthRouter(t, map[string]httpserver.HealthChecker{
		"redis": httpserver.RedisHealthChecker(func() error { return errors.New("dial tcp: refused") }),
	})

	w, resp := getHealth(t, router, "/health/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health/ready status = %d, want 200 when degraded", w.Code)
	}
	if resp.Status != httpserver.HealthStatusDegraded {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
	if got := resp.Checks["redis"]; got.Message != "Redis connection failed" {
		t.Errorf("redis check message = %q", got.Message)
	}
}

func TestReadinessEndpoint_UnhealthyReturns503(t *testing.T) {
	t.Parallel()

	router := newHealthRouter(t, map[string]httpserver.HealthChecker{
		"database": httpserver.DatabaseHealthChecker(func() error { return errors.New("conn refused") }),
		"redis":    httpserver.RedisHealthChecker(func() error { return nil }),
	})

	w, resp := getHealth(t, router, "/health/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /health/ready status = %d, want 503", w.Code)
	}
	if resp.Status != httpserver.HealthStatusUnhealthy {
		t.Errorf("status = %q, want unhealthy", resp.Status)
	}
	if got := resp.Checks["database"]; got.Status != httpserver.HealthStatusUnhealthy {
		t.Errorf("database check status = %q, want unhealthy", got.Status)
	}
	// The healthy check still reports individually.
	if got := resp.Checks["redis"]; got.Status != httpserver.HealthStatusHealthy {
		t.Errorf("redis check status = %q, want healthy", got.Status)
	}
}

func TestHeadHealth(t *testing.T) {
	t.Parallel()

	router := newHealthRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/health", http.NoBody)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("HEAD /health status = %d, want 200", w.Code)
	}
}

func TestMemoryHealthEndpoint(t *testing.T) {
	t.Parallel()

	router := newHealthRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/memory", http.NoBody)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health/memory status = %d, want 200", w.Code)
	}

	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode memory response: %v", err)
	}
	if _, ok := stats["heap_alloc_mb"]; !ok {
		t.Errorf("memory response missing heap_alloc_mb: %v", stats)
	}
}

func TestElasticsearchHealthChecker(t *testing.T) {
	t.Parallel()

	ok := httpserver.ElasticsearchHealthChecker(func() error { return nil })()
	if ok.Status != httpserver.HealthStatusHealthy {
		t.Errorf("healthy ping status = %q", ok.Status)
	}

	bad := httpserver.ElasticsearchHealthChecker(func() error { return errors.New("no route") })()
	if bad.Status != httpserver.HealthStatusDegraded {
		t.Errorf("failed ping status = %q, want degraded", bad.Status)
	}
}

func TestServerBuilder_Build(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	srv := httpserver.NewServerBuilder("analyzer", 0).
		WithLogger(logger.NewNop()).
		WithVersion("test").
		WithHealthCheck("database", httpserver.DatabaseHealthChecker(func() error { return nil })).
		WithRoutes(func(router *gin.Engine) {
			router.GET("/custom", func(c *gin.Context) {
				c.String(http.StatusOK, "custom")
			})
		}).
		Build()

	router := srv.Router()

	// Operational routes are registered ahead of service routes.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))
	if w.Code != http.StatusOK {
		t.Errorf("GET /health/ready status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/custom", http.NoBody))
	if w.Code != http.StatusOK || w.Body.String() != "custom" {
		t.Errorf("GET /custom = %d %q", w.Code, w.Body.String())
	}
}
