// Package inference provides pluggable sentiment backends for text
// analysis. Backends are leased per request: acquire, classify once,
// release. Availability is probed on every acquire so a backend that
// comes or goes mid-flight is picked up without restarts.
package inference

import (
	"context"
	"errors"
)

// ErrUnavailable indicates no inference backend is reachable right now.
// Callers fall back to statistical analysis when they see it.
var ErrUnavailable = errors.New("inference backend unavailable")

// Sentiment is the outcome of one inference call.
type Sentiment struct {
	Label        string  `json:"label"` // e.g. "POSITIVE", "NEGATIVE"
	Score        float64 `json:"score"` // model confidence, 0.0-1.0
	ModelVersion string  `json:"model_version"`
	LatencyMs    int64   `json:"-"`
}

// Handle is a single-use lease on a backend. Callers must Release on
// every exit path; Release is idempotent.
type Handle interface {
	Classify(ctx context.Context, text string) (*Sentiment, error)
	Release()
}

// Provider acquires backend handles. Acquire returns ErrUnavailable when
// the backend cannot serve; results are never cached between calls.
type Provider interface {
	Name() string
	Acquire(ctx context.Context) (Handle, error)
}
