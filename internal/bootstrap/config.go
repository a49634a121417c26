// Package bootstrap assembles the analyzer service: configuration,
// logging, the optional storage backends, the inference provider, and
// the HTTP server around them.
package bootstrap

import (
	"fmt"
	"log"

	"github.com/jonesrussell/analyzer/internal/config"
	"github.com/jonesrussell/analyzer/internal/logger"
)

// LoadConfig loads configuration. Uses defaults if file doesn't exist.
func LoadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.LoadWithDefaults[config.Config](configPath, config.SetDefaults)
	if err != nil {
		log.Printf("Warning: Failed to load config file (%s), using defaults: %v", configPath, err)
		cfg = &config.Config{}
		config.SetDefaults(cfg)
		return cfg, nil
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
