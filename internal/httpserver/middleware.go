package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/analyzer/internal/logger"
)

// maxRequestIDLen caps inbound X-Request-ID values. Anything longer is
// replaced with a generated ID so log fields stay bounded.
const maxRequestIDLen = 128

// RequestIDLoggerMiddleware assigns each request a unique ID and stores a
// request-scoped logger in the request context. The ID is taken from the
// X-Request-ID header when present (and reasonably sized), otherwise
// generated. The ID is echoed back in the X-Request-ID response header and
// exposed to handlers via the "request_id" Gin context key and
// logger.FromContext.
func RequestIDLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = generateRequestID()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		reqLogger := log.With(logger.String("request_id", requestID))
		ctx := logger.WithContext(c.Request.Context(), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// generateRequestID creates a unique request ID: a UUIDv4 with the dashes
// stripped (32 hex characters).
func generateRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// LoggerMiddleware emits one structured entry per request: method, path,
// status, duration, client IP, plus request ID, query, and handler errors
// when present. Entries with handler errors log at Error level.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		if id := c.GetString("request_id"); id != "" {
			fields = append(fields, logger.String("request_id", id))
		}
		if query != "" {
			fields = append(fields, logger.String("query", query))
		}
		// Probes hammer /health; their user agent is noise.
		if !strings.HasPrefix(path, "/health") {
			fields = append(fields, logger.String("user_agent", c.Request.UserAgent()))
		}

		if len(c.Errors) == 0 {
			log.Info("HTTP request", fields...)
			return
		}

		msgs := make([]string, len(c.Errors))
		for i, ginErr := range c.Errors {
			msgs[i] = ginErr.Err.Error()
		}
		log.Error("HTTP request with errors", append(fields, logger.Strings("errors", msgs))...)
	}
}

// corsHeaders holds the precomputed header values shared by every request.
type corsHeaders struct {
	methods     string
	headers     string
	credentials string
	maxAge      string
}

// CORSMiddleware applies the configured CORS policy. Requests from origins
// outside the policy pass through without CORS headers; the browser
// enforces the block.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	cfg.SetDefaults()

	pre := corsHeaders{
		methods:     strings.Join(cfg.AllowedMethods, ", "),
		headers:     strings.Join(cfg.AllowedHeaders, ", "),
		credentials: strconv.FormatBool(cfg.AllowCredentials),
		maxAge:      strconv.Itoa(int(cfg.MaxAge.Seconds())),
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		allowed := resolveOrigin(c.Request.Header.Get("Origin"), cfg.AllowedOrigins)
		if allowed == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowed)
		h.Set("Access-Control-Allow-Credentials", pre.credentials)
		h.Set("Access-Control-Allow-Methods", pre.methods)
		h.Set("Access-Control-Allow-Headers", pre.headers)
		h.Set("Access-Control-Max-Age", pre.maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// resolveOrigin returns the Access-Control-Allow-Origin value for origin,
// or "" when the origin is outside the allowed list. Same-origin requests
// (no Origin header) resolve to "*".
func resolveOrigin(origin string, allowedOrigins []string) string {
	if origin == "" {
		return "*"
	}
	for _, allowed := range allowedOrigins {
		switch allowed {
		case "*":
			return "*"
		case origin:
			return origin
		}
	}
	return ""
}

// RecoveryMiddleware converts handler panics into logged 500 responses so a
// single bad request cannot take the process down.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					logger.Any("error", r),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
					logger.String("client_ip", c.ClientIP()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"code":    "INTERNAL_ERROR",
					"message": "An unexpected error occurred",
				})
			}
		}()

		c.Next()
	}
}
