package inference_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonesrussell/analyzer/internal/inference"
	"github.com/jonesrussell/analyzer/internal/logger"
)

func newProvider(baseURL string) *inference.SidecarProvider {
	return inference.NewSidecarProvider(inference.SidecarConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, logger.NewNop())
}

func TestSidecarProvider_AcquireAndClassify(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `{"status":"ok","model_version":"distilbert-q8"}`)
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			http.Error(w, "content type "+ct, http.StatusUnsupportedMediaType)
			return
		}
		var req inference.ClassifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Text != "the picnic was lovely" {
			http.Error(w, "unexpected text "+req.Text, http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"label":"POSITIVE","score":0.97,"model_version":"distilbert-q8","processing_ms":12}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	provider := newProvider(srv.URL)
	if provider.Name() != "sidecar" {
		t.Errorf("Name() = %q, want sidecar", provider.Name())
	}

	handle, err := provider.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer handle.Release()

	sentiment, err := handle.Classify(context.Background(), "the picnic was lovely")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if sentiment.Label != "POSITIVE" {
		t.Errorf("Label = %q, want POSITIVE", sentiment.Label)
	}
	if sentiment.Score != 0.97 {
		t.Errorf("Score = %v, want 0.97", sentiment.Score)
	}
	if sentiment.ModelVersion != "distilbert-q8" {
		t.Errorf("ModelVersion = %q, want distilbert-q8", sentiment.ModelVersion)
	}
	if sentiment.LatencyMs < 0 {
		t.Errorf("LatencyMs = %d, want >= 0", sentiment.LatencyMs)
	}
}

func TestSidecarProvider_ModelVersionFallsBackToProbe(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"ok","model_version":"probe-version"}`)
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, _ *http.Request) {
		// No model_version in the classify response.
		fmt.Fprint(w, `{"label":"NEGATIVE","score":0.4}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	handle, err := newProvider(srv.URL).Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer handle.Release()

	sentiment, err := handle.Classify(context.Background(), "meh")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if sentiment.ModelVersion != "probe-version" {
		t.Errorf("ModelVersion = %q, want the probe's version", sentiment.ModelVersion)
	}
}

func TestSidecarProvider_UnavailableWhenDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := newProvider(srv.URL).Acquire(context.Background())
	if !errors.Is(err, inference.ErrUnavailable) {
		t.Errorf("Acquire() error = %v, want ErrUnavailable", err)
	}
}

func TestSidecarProvider_UnavailableWhenUnhealthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{name: "service unavailable", status: http.StatusServiceUnavailable},
		{name: "internal error", status: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)

			_, err := newProvider(srv.URL).Acquire(context.Background())
			if !errors.Is(err, inference.ErrUnavailable) {
				t.Errorf("Acquire() error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestSidecarProvider_RateLimit(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	provider := inference.NewSidecarProvider(inference.SidecarConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 0.001,
		Burst:             1,
	}, logger.NewNop())

	handle, err := provider.Acquire(context.Background())
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	handle.Release()

	_, err = provider.Acquire(context.Background())
	if !errors.Is(err, inference.ErrUnavailable) {
		t.Errorf("second Acquire() error = %v, want ErrUnavailable from the limiter", err)
	}
}

func TestSidecarHandle_ClassifyErrorStatuses(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	handle, err := newProvider(srv.URL).Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer handle.Release()

	if _, err := handle.Classify(context.Background(), "text"); err == nil {
		t.Error("Classify() succeeded against a 500 response")
	}
}

func TestSidecarHandle_ReleaseIdempotent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	handle, err := newProvider(srv.URL).Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	handle.Release()
	handle.Release() // must not panic
}

func TestDoHealth(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"ok","model_version":"v2"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := &http.Client{Timeout: time.Second}

	reachable, latencyMs, modelVersion, err := inference.DoHealth(context.Background(), client, srv.URL)
	if err != nil {
		t.Fatalf("DoHealth() error = %v", err)
	}
	if !reachable {
		t.Error("reachable = false against a healthy server")
	}
	if latencyMs < 0 {
		t.Errorf("latencyMs = %d, want >= 0", latencyMs)
	}
	if modelVersion != "v2" {
		t.Errorf("modelVersion = %q, want v2", modelVersion)
	}

	srv.Close()
	reachable, _, _, err = inference.DoHealth(context.Background(), client, srv.URL)
	if err == nil || reachable {
		t.Errorf("DoHealth() on closed server = (%v, %v), want unreachable error", reachable, err)
	}
}

func TestDoClassify_DecodesWireFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			http.Error(w, "path "+r.URL.Path, http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"label":"NEGATIVE","score":0.12,"model_version":"m1","processing_ms":7}`)
	}))
	t.Cleanup(srv.Close)

	var resp struct {
		Label        string  `json:"label"`
		Score        float64 `json:"score"`
		ModelVersion string  `json:"model_version"`
		ProcessingMs int64   `json:"processing_ms"`
	}
	client := &http.Client{Timeout: time.Second}
	_, size, err := inference.DoClassify(context.Background(), client, srv.URL, &inference.ClassifyRequest{Text: "x"}, &resp)
	if err != nil {
		t.Fatalf("DoClassify() error = %v", err)
	}
	if size == 0 {
		t.Error("response size = 0")
	}
	if resp.Label != "NEGATIVE" || resp.Score != 0.12 || resp.ModelVersion != "m1" || resp.ProcessingMs != 7 {
		t.Errorf("decoded response = %+v", resp)
	}
}
