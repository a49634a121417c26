// Package profiling wires optional continuous profiling for the analyzer
// service.
package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/analyzer/internal/logger"
)

// Profiler wraps a running pyroscope session. The zero of *Profiler is a
// valid no-op, so callers can defer Stop unconditionally.
type Profiler struct {
	session *pyroscope.Profiler
}

// StartPyroscope begins continuous profiling when the environment opts in.
// Configuration is environment-only so profiling can be switched on in a
// deployment without touching the config file:
//   - ENABLE_CONTINUOUS_PROFILING: "true" enables it, anything else does not
//   - PYROSCOPE_SERVER_URL: collector address, default http://pyroscope:4040
//   - PYROSCOPE_ENVIRONMENT: environment tag, default "development"
//
// Disabled profiling returns (nil, nil).
func StartPyroscope(serviceName, version string, log logger.Logger) (*Profiler, error) {
	if os.Getenv("ENABLE_CONTINUOUS_PROFILING") != "true" {
		return nil, nil
	}

	server := envOr("PYROSCOPE_SERVER_URL", "http://pyroscope:4040")
	environment := envOr("PYROSCOPE_ENVIRONMENT", "development")

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   server,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("application", serviceName),
		logger.String("server", server),
		logger.String("environment", environment),
	)

	return &Profiler{session: session}, nil
}

// Stop flushes and ends the profiling session. Safe on a nil receiver.
func (p *Profiler) Stop() error {
	if p == nil || p.session == nil {
		return nil
	}
	return p.session.Stop()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
