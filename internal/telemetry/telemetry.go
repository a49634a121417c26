// Package telemetry provides OpenTelemetry instrumentation for the analyzer
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "analyzer"

// Analysis outcome labels.
const (
	OutcomeInference = "inference"
	OutcomeMock      = "mock"
	OutcomeError     = "error"
)

// Metrics holds all analyzer Prometheus metrics
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec

	// Inference backend metrics
	InferenceAttempts *prometheus.CounterVec
	InferenceLatency  prometheus.Histogram

	// Media metrics
	ImageDecodeFailures prometheus.Counter

	// Cue engine metrics
	CueMatches     *prometheus.CounterVec
	CueScanLatency prometheus.Histogram

	// Batch metrics
	BatchSize     prometheus.Histogram
	ActiveWorkers prometheus.Gauge
	QueueDepth    prometheus.Gauge
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	metrics := initMetrics()
	tracer := otel.Tracer(serviceName)

	return &Provider{
		Tracer:  tracer,
		Metrics: metrics,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initAnalysisMetrics(m)
	initInferenceMetrics(m)
	initMediaMetrics(m)
	initCueMetrics(m)
	initBatchMetrics(m)
	return m
}

func initAnalysisMetrics(m *Metrics) {
	m.AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_analyses_total",
		Help: "Total analyses by content type and outcome (inference, mock, error)",
	}, []string{"type", "outcome"})

	m.AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analyzer_analysis_duration_seconds",
		Help:    "Time to analyze a single piece of content",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"type"})
}

func initInferenceMetrics(m *Metrics) {
	m.InferenceAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_inference_attempts_total",
		Help: "Inference backend attempts by provider and outcome",
	}, []string{"provider", "outcome"})

	m.InferenceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_inference_latency_seconds",
		Help:    "Latency of inference backend calls",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})
}

func initMediaMetrics(m *Metrics) {
	m.ImageDecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_image_decode_failures_total",
		Help: "Total uploaded images that failed to decode",
	})
}

func initCueMetrics(m *Metrics) {
	m.CueMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_cue_matches_total",
		Help: "Credibility cue matches by lexicon category",
	}, []string{"category"})

	m.CueScanLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_cue_scan_duration_seconds",
		Help:    "Time spent scanning text for credibility cues (Aho-Corasick)",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
}

func initBatchMetrics(m *Metrics) {
	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_batch_size",
		Help:    "Number of items per batch analysis request",
		Buckets: []float64{1, 5, 10, 25, 50, 100},
	})

	m.ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analyzer_batch_active_workers",
		Help: "Currently active batch worker goroutines",
	})

	m.QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analyzer_batch_queue_depth",
		Help: "Current pending items in the batch work queue",
	})
}

// RecordAnalysis records metrics for a single analysis
func (p *Provider) RecordAnalysis(ctx context.Context, contentType, outcome string, duration time.Duration) {
	p.Metrics.AnalysesTotal.WithLabelValues(contentType, outcome).Inc()
	p.Metrics.AnalysisDuration.WithLabelValues(contentType).Observe(duration.Seconds())
}

// RecordInferenceAttempt records an inference backend attempt
func (p *Provider) RecordInferenceAttempt(ctx context.Context, provider, outcome string, latency time.Duration) {
	p.Metrics.InferenceAttempts.WithLabelValues(provider, outcome).Inc()
	p.Metrics.InferenceLatency.Observe(latency.Seconds())
}

// RecordImageDecodeFailure records an undecodable image upload
func (p *Provider) RecordImageDecodeFailure(ctx context.Context) {
	p.Metrics.ImageDecodeFailures.Inc()
}

// RecordCueScan records cue engine metrics for one scan
func (p *Provider) RecordCueScan(ctx context.Context, duration time.Duration, matchesByCategory map[string]int) {
	p.Metrics.CueScanLatency.Observe(duration.Seconds())
	for category, count := range matchesByCategory {
		p.Metrics.CueMatches.WithLabelValues(category).Add(float64(count))
	}
}

// RecordBatchSize records the size of a batch analysis request
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// SetActiveWorkers sets the current active worker count
func (p *Provider) SetActiveWorkers(count int) {
	p.Metrics.ActiveWorkers.Set(float64(count))
}

// SetQueueDepth sets the current batch queue depth
func (p *Provider) SetQueueDepth(depth int) {
	p.Metrics.QueueDepth.Set(float64(depth))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
