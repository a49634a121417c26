package telemetry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/analyzer/internal/telemetry"
)

// providerOnce ensures we only create one Provider per test run to avoid
// duplicate Prometheus metric registration errors from promauto's global registry
var (
	testProvider *telemetry.Provider
	providerOnce sync.Once
)

func getTestProvider(t *testing.T) *telemetry.Provider {
	t.Helper()
	providerOnce.Do(func() {
		testProvider = telemetry.NewProvider()
	})
	return testProvider
}

func TestNewProvider(t *testing.T) {
	provider := getTestProvider(t)
	if provider == nil {
		t.Fatal("expected non-nil provider")
	}
	if provider.Tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
}

func TestRecordAnalysis(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordAnalysis(ctx, "text", telemetry.OutcomeInference, 100*time.Millisecond)
	provider.RecordAnalysis(ctx, "url", telemetry.OutcomeMock, 50*time.Millisecond)
	provider.RecordAnalysis(ctx, "image", telemetry.OutcomeError, 5*time.Millisecond)
}

func TestRecordInferenceAttempt(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordInferenceAttempt(ctx, "sidecar", "success", 20*time.Millisecond)
	provider.RecordInferenceAttempt(ctx, "sidecar", "unavailable", time.Millisecond)
}

func TestRecordCueScan(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordCueScan(ctx, 2*time.Millisecond, map[string]int{"clickbait": 2, "hedging": 1})
	provider.RecordCueScan(ctx, time.Millisecond, nil)
}

func TestBatchGauges(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.RecordBatchSize(25)
	provider.SetActiveWorkers(5)
	provider.SetQueueDepth(100)
}
