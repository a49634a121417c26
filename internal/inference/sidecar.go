package inference

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/analyzer/internal/logger"
)

const (
	defaultSidecarTimeout = 5 * time.Second
	probeTimeout          = 2 * time.Second
)

// SidecarConfig configures the sentiment sidecar provider.
type SidecarConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// SidecarProvider talks to a sentiment model served as an HTTP sidecar.
// Every Acquire probes GET /health first; a probe miss means the sidecar
// is down or still loading its model, and the caller falls back.
type SidecarProvider struct {
	baseURL     string
	timeout     time.Duration
	limiter     *rate.Limiter
	probeClient *http.Client
	logger      logger.Logger
}

// NewSidecarProvider creates a sidecar provider. A zero RequestsPerSecond
// disables rate limiting.
func NewSidecarProvider(cfg SidecarConfig, log logger.Logger) *SidecarProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSidecarTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &SidecarProvider{
		baseURL:     cfg.BaseURL,
		timeout:     timeout,
		limiter:     limiter,
		probeClient: &http.Client{Timeout: probeTimeout},
		logger:      log,
	}
}

// Name identifies this provider in logs and metrics.
func (p *SidecarProvider) Name() string { return "sidecar" }

// Acquire probes the sidecar and leases a handle with its own connection
// pool. The pool is torn down on Release so an idle service holds no
// sockets open to the sidecar between requests.
func (p *SidecarProvider) Acquire(ctx context.Context) (Handle, error) {
	if p.limiter != nil && !p.limiter.Allow() {
		return nil, fmt.Errorf("%w: rate limit reached", ErrUnavailable)
	}

	reachable, latencyMs, modelVersion, err := DoHealth(ctx, p.probeClient, p.baseURL)
	if err != nil || !reachable {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	p.logger.Debug("sidecar acquired",
		logger.String("model_version", modelVersion),
		logger.Int64("probe_latency_ms", latencyMs))

	transport := &http.Transport{}
	return &sidecarHandle{
		baseURL:      p.baseURL,
		modelVersion: modelVersion,
		transport:    transport,
		client:       &http.Client{Transport: transport, Timeout: p.timeout},
	}, nil
}

type sidecarHandle struct {
	baseURL      string
	modelVersion string
	transport    *http.Transport
	client       *http.Client
	released     bool
}

// classifyResponse is the sidecar wire format for POST /classify.
type classifyResponse struct {
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	ModelVersion string  `json:"model_version"`
	ProcessingMs int64   `json:"processing_ms"`
}

func (h *sidecarHandle) Classify(ctx context.Context, text string) (*Sentiment, error) {
	req := &ClassifyRequest{Text: text}
	var resp classifyResponse
	latencyMs, _, err := DoClassify(ctx, h.client, h.baseURL, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	modelVersion := resp.ModelVersion
	if modelVersion == "" {
		modelVersion = h.modelVersion
	}

	return &Sentiment{
		Label:        resp.Label,
		Score:        resp.Score,
		ModelVersion: modelVersion,
		LatencyMs:    latencyMs,
	}, nil
}

func (h *sidecarHandle) Release() {
	if h.released {
		return
	}
	h.released = true
	h.transport.CloseIdleConnections()
}
