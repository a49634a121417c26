package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/analyzer/internal/auth"
	"github.com/jonesrussell/analyzer/internal/logger"
)

// ServerBuilder assembles a Server from chained options. Zero-configuration
// use works: Build falls back to sane defaults for anything not set.
type ServerBuilder struct {
	config *Config
	logger logger.Logger
	routes func(*gin.Engine)
	checks map[string]HealthChecker
}

// NewServerBuilder starts a builder for the named service listening on port.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config: NewConfig(serviceName, port),
		checks: make(map[string]HealthChecker),
	}
}

// WithLogger supplies the logger the server and middleware will use.
func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

// WithDebug toggles gin debug mode.
func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

// WithVersion records the version reported by the health endpoints.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

// WithTimeouts overrides the read, write and idle timeouts.
func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithHealthCheck registers a named readiness check served on /health/ready.
func (b *ServerBuilder) WithHealthCheck(name string, checker HealthChecker) *ServerBuilder {
	b.checks[name] = checker
	return b
}

// WithRoutes supplies the service route registration hook.
func (b *ServerBuilder) WithRoutes(routes func(*gin.Engine)) *ServerBuilder {
	b.routes = routes
	return b
}

// Build materializes the server. The operational health routes are always
// registered first so service routes cannot shadow them.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{
			Level:       "info",
			Development: b.config.Debug,
		})
	}

	setup := func(router *gin.Engine) {
		RegisterHealthRoutes(router, HealthOptions{
			ServiceName:    b.config.ServiceName,
			ServiceVersion: b.config.ServiceVersion,
			Checks:         b.checks,
		})
		if b.routes != nil {
			b.routes(router)
		}
	}

	return NewServer(b.config, b.logger, setup)
}

// ProtectedGroup creates a router group with JWT authentication middleware.
// Use this for routes that require authentication. An empty jwtSecret leaves
// the group open.
func ProtectedGroup(router *gin.Engine, path, jwtSecret string) *gin.RouterGroup {
	group := router.Group(path)
	if jwtSecret != "" {
		group.Use(auth.Middleware(jwtSecret))
	}
	return group
}
