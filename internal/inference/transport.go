package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClassifyRequest is the request body for POST /classify on the sentiment
// sidecar.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// healthResponse is the JSON shape returned by GET /health (model_version optional).
type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// DoClassify sends POST /classify to baseURL with req, decoding the response
// into respPtr. It returns the call latency and response size for logging
// and metrics.
func DoClassify(
	ctx context.Context,
	client *http.Client,
	baseURL string,
	req *ClassifyRequest,
	respPtr any,
) (latencyMs int64, responseSizeBytes int, err error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(httpReq)
	latencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return latencyMs, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return latencyMs, 0, fmt.Errorf("read response: %w", err)
	}
	responseSizeBytes = len(respBody)

	if resp.StatusCode != http.StatusOK {
		return latencyMs, responseSizeBytes, fmt.Errorf("sentiment service returned %d", resp.StatusCode)
	}

	if decodeErr := json.Unmarshal(respBody, respPtr); decodeErr != nil {
		return latencyMs, responseSizeBytes, fmt.Errorf("decode response: %w", decodeErr)
	}

	return latencyMs, responseSizeBytes, nil
}

// DoHealth calls GET /health at baseURL and returns reachable, latencyMs,
// model_version, and any error.
func DoHealth(
	ctx context.Context,
	client *http.Client,
	baseURL string,
) (reachable bool, latencyMs int64, modelVersion string, err error) {
	start := time.Now()

	httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", http.NoBody)
	if reqErr != nil {
		return false, 0, "", fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := client.Do(httpReq)
	latencyMs = time.Since(start).Milliseconds()
	if doErr != nil {
		return false, latencyMs, "", fmt.Errorf("service unreachable: %w", doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, latencyMs, "", fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	reachable = true
	var healthResp healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&healthResp); decodeErr == nil {
		modelVersion = healthResp.ModelVersion
	}
	return reachable, latencyMs, modelVersion, nil
}
