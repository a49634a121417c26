package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/analyzer/internal/monitoring"
)

// HealthStatus is the coarse state reported for the service or a single check.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body served by the liveness and readiness endpoints.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one named dependency's contribution to readiness.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker probes one dependency. Checkers run synchronously on every
// readiness request, so they must bound their own timeouts.
type HealthChecker func() CheckResult

// HealthOptions configures the operational health endpoints.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	// StartTime anchors uptime reporting; zero means process start.
	StartTime time.Time
	Checks    map[string]HealthChecker
}

var processStart = time.Now()

// healthRoutes serves the operational endpoints for one registration.
type healthRoutes struct {
	service string
	version string
	started time.Time
	checks  map[string]HealthChecker
}

// RegisterHealthRoutes adds the operational health endpoints to a Gin router.
// Endpoints:
//   - GET /health/live - Liveness probe, always 200 while the process serves
//   - GET /health/ready - Readiness probe running the registered checks
//   - GET /health/memory - Memory statistics from the runtime
//   - HEAD /health - Lightweight health check for load balancers
//
// GET /health is deliberately left unregistered: the API layer owns it so the
// public response shape stays under its control.
func RegisterHealthRoutes(router *gin.Engine, opts HealthOptions) {
	h := &healthRoutes{
		service: opts.ServiceName,
		version: opts.ServiceVersion,
		started: opts.StartTime,
		checks:  opts.Checks,
	}
	if h.started.IsZero() {
		h.started = processStart
	}

	router.GET("/health/live", h.live)
	router.GET("/health/ready", h.ready)
	router.GET("/health/memory", func(c *gin.Context) {
		monitoring.MemoryHealthHandler(c.Writer, c.Request)
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func (h *healthRoutes) live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  HealthStatusHealthy,
		Service: h.service,
		Version: h.version,
		Uptime:  formatUptime(time.Since(h.started)),
	})
}

// ready runs every registered check and aggregates: any unhealthy check
// makes the whole response unhealthy (503); degraded checks mark the
// response degraded but keep it 200 so the instance stays in rotation.
func (h *healthRoutes) ready(c *gin.Context) {
	resp := HealthResponse{
		Status:  HealthStatusHealthy,
		Service: h.service,
		Version: h.version,
		Uptime:  formatUptime(time.Since(h.started)),
	}

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]CheckResult, len(h.checks))
	}
	for name, check := range h.checks {
		result := check()
		resp.Checks[name] = result

		switch {
		case result.Status == HealthStatusUnhealthy:
			resp.Status = HealthStatusUnhealthy
		case result.Status == HealthStatusDegraded && resp.Status == HealthStatusHealthy:
			resp.Status = HealthStatusDegraded
		}
	}

	code := http.StatusOK
	if resp.Status == HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func formatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	days := secs / (24 * 3600)
	hours := secs / 3600 % 24
	mins := secs / 60 % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs%60)
	default:
		return fmt.Sprintf("%ds", secs%60)
	}
}

// connChecker builds a checker that pings a named backend and reports
// onFailure when the ping errors. Latency covers the ping only.
func connChecker(subject string, onFailure HealthStatus, ping func() error) HealthChecker {
	return func() CheckResult {
		start := time.Now()
		err := ping()

		result := CheckResult{
			Status:  HealthStatusHealthy,
			Message: subject + " connection OK",
			Latency: time.Since(start).String(),
		}
		if err != nil {
			result.Status = onFailure
			result.Message = subject + " connection failed"
		}
		return result
	}
}

// DatabaseHealthChecker probes the relational store. A failed ping is
// unhealthy: history and reputation lookups cannot run without it.
func DatabaseHealthChecker(ping func() error) HealthChecker {
	return connChecker("Database", HealthStatusUnhealthy, ping)
}

// RedisHealthChecker probes the share-link store. Failure is degraded, not
// unhealthy: analysis keeps working when only sharing is down.
func RedisHealthChecker(ping func() error) HealthChecker {
	return connChecker("Redis", HealthStatusDegraded, ping)
}

// ElasticsearchHealthChecker probes the archive. Failure is degraded for
// the same reason as Redis: archival is best-effort.
func ElasticsearchHealthChecker(ping func() error) HealthChecker {
	return connChecker("Elasticsearch", HealthStatusDegraded, ping)
}
