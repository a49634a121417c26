package main

import (
	"fmt"
	"log"
	"time"

	"github.com/jonesrussell/analyzer/internal/bootstrap"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/monitoring"
	"github.com/jonesrussell/analyzer/internal/profiling"
)

const (
	memoryGrowthThreshold = 2.0
	memoryCheckInterval   = 30 * time.Second
	memoryBaselineDelay   = 2 * time.Minute
)

// @title        Analyzer API
// @version      1.0
// @description  Credibility analysis for text, URLs and images, with model-backed sentiment when an inference backend is reachable.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		log.Fatalf("analyzer: %v", err)
	}
}

func run() error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appLog, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, appLog)
	if err != nil {
		appLog.Warn("Continuous profiling unavailable", logger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	comps, err := bootstrap.NewHTTPComponents(cfg, appLog)
	if err != nil {
		return fmt.Errorf("initialize components: %w", err)
	}
	defer closeComponents(comps, appLog)

	// Watch for heap and goroutine growth; the baseline waits for warmup
	// so steady-state allocations are not reported as leaks.
	memMonitor := monitoring.NewMemoryMonitor(memoryGrowthThreshold, memoryCheckInterval)
	memMonitor.SetWarningCallback(func(report string) {
		appLog.Warn("Memory growth detected", logger.String("report", report))
	})
	baseline := time.AfterFunc(memoryBaselineDelay, memMonitor.EstablishBaseline)
	defer baseline.Stop()
	memMonitor.StartMonitoring()
	defer memMonitor.StopMonitoring()

	appLog.Info("Starting analyzer HTTP server",
		logger.Int("port", cfg.Service.Port),
		logger.String("version", cfg.Service.Version),
		logger.Bool("debug", cfg.Service.Debug),
	)

	return comps.Server.Run()
}

func closeComponents(comps *bootstrap.HTTPComponents, appLog logger.Logger) {
	if comps.DB != nil {
		if err := comps.DB.Close(); err != nil {
			appLog.Error("Error closing database connection", logger.Error(err))
		}
	}
	if comps.Redis != nil {
		if err := comps.Redis.Close(); err != nil {
			appLog.Error("Error closing redis connection", logger.Error(err))
		}
	}
}
