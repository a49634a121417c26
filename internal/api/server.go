package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jonesrussell/analyzer/internal/config"
	"github.com/jonesrussell/analyzer/internal/httpserver"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/telemetry"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// NewServer builds the HTTP server for the analyzer API. Readiness
// checks for whichever backends the deployment enables are passed in
// by the caller.
func NewServer(
	cfg *config.Config,
	handler *Handler,
	tel *telemetry.Provider,
	log logger.Logger,
	checks map[string]httpserver.HealthChecker,
) *httpserver.Server {
	builder := httpserver.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithRoutes(func(router *gin.Engine) {
			SetupServiceRoutes(router, handler, tel, cfg.Auth.JWTSecret)
		})

	for name, check := range checks {
		builder.WithHealthCheck(name, check)
	}

	return builder.Build()
}

// SetupServiceRoutes registers the analyzer routes on the router. The
// capability descriptor, /health, and the analyze endpoints stay public;
// batch, share creation, and the admin reads sit under /api/v1 behind
// optional JWT.
func SetupServiceRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider, jwtSecret string) {
	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)

	analyze := router.Group("/analyze")
	{
		analyze.POST("/text", handler.AnalyzeText)
		analyze.POST("/url", handler.AnalyzeURL)
		analyze.POST("/image", handler.AnalyzeImage)
		analyze.POST("/video", handler.AnalyzeVideo)
	}

	router.GET("/s/:id", handler.GetShared)

	protected := httpserver.ProtectedGroup(router, "/api/v1", jwtSecret)
	{
		protected.POST("/analyze/batch", handler.AnalyzeBatch)
		protected.POST("/share", handler.CreateShare)
		protected.GET("/history", handler.GetHistory)
		protected.GET("/history/:id", handler.GetHistoryByID)
		protected.GET("/stats", handler.GetStats)
		protected.GET("/domains", handler.GetDomains)
		protected.GET("/domains/:domain", handler.GetDomain)
		protected.GET("/search", handler.SearchArchive)
	}

	if tel != nil {
		router.GET("/metrics", gin.WrapH(tel.Handler()))
	}

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
