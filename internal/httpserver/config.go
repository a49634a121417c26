// Package httpserver provides the shared HTTP plumbing for the analyzer
// service: CORS, request logging, health endpoints, and server lifecycle
// on top of Gin.
package httpserver

import "time"

// Server timeout defaults.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSMaxAge      = 12 * time.Hour
)

// Config holds the HTTP server configuration.
type Config struct {
	Port            int
	Debug           bool          // verbose logging + gin debug mode
	ReadTimeout     time.Duration // full-request read deadline
	WriteTimeout    time.Duration // response write deadline
	IdleTimeout     time.Duration // keep-alive idle deadline
	ShutdownTimeout time.Duration // drain window for graceful shutdown
	CORS            CORSConfig

	// ServiceName and ServiceVersion appear in health responses.
	ServiceName    string
	ServiceVersion string
}

// CORSConfig controls the CORS middleware. The zero value resolves to the
// analyzer's public contract: all origins, common methods and headers.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string // "*" admits every origin
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration // preflight cache lifetime
}

// NewConfig returns a Config for the given service with CORS enabled.
func NewConfig(serviceName string, port int) *Config {
	cfg := &Config{
		Port:        port,
		ServiceName: serviceName,
		CORS:        CORSConfig{Enabled: true},
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}

	c.CORS.SetDefaults()
}

// SetDefaults fills unset CORS fields. A fully zero config comes out
// enabled and wide open, which is the public analyze contract.
func (c *CORSConfig) SetDefaults() {
	if !c.Enabled && len(c.AllowedOrigins) == 0 {
		c.Enabled = true
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With", "X-API-Key",
		}
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultCORSMaxAge
	}
}
