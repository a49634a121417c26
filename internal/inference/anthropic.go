package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonesrussell/analyzer/internal/logger"
)

const (
	anthropicMaxTokens = 128

	// sentimentPrompt asks for a strict JSON verdict. The assistant turn is
	// prefilled with "{" so the model continues the object instead of
	// narrating around it.
	sentimentPrompt = `Classify the sentiment of the following text. ` +
		`Respond with a JSON object of exactly this shape: ` +
		`{"label": "POSITIVE" or "NEGATIVE", "score": <confidence between 0 and 1>}` + "\n\nText:\n"
)

// AnthropicConfig configures the Claude-backed sentiment provider.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// AnthropicProvider classifies sentiment through the Anthropic Messages
// API. It is considered available whenever an API key is configured; call
// failures still fall back like any other provider error.
type AnthropicProvider struct {
	apiKey string
	model  string
	logger logger.Logger
}

// NewAnthropicProvider creates a Claude-backed provider.
func NewAnthropicProvider(cfg AnthropicConfig, log logger.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		logger: log,
	}
}

// Name identifies this provider in logs and metrics.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Acquire builds a fresh API client for this request. Without a key the
// provider reports ErrUnavailable so the caller falls back immediately.
func (p *AnthropicProvider) Acquire(_ context.Context) (Handle, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	client := anthropic.NewClient(option.WithAPIKey(p.apiKey))
	return &anthropicHandle{client: &client, model: p.model}, nil
}

type anthropicHandle struct {
	client *anthropic.Client
	model  string
}

// sentimentVerdict is the JSON object the model is asked to produce.
type sentimentVerdict struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (h *anthropicHandle) Classify(ctx context.Context, text string) (*Sentiment, error) {
	start := time.Now()

	// Prefill the assistant turn with "{" so the response continues the
	// JSON object.
	message, err := h.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(h.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sentimentPrompt + text)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("{")),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, errors.New("anthropic returned empty response")
	}

	verdict, err := parseSentimentVerdict(responseText)
	if err != nil {
		return nil, err
	}

	return &Sentiment{
		Label:        verdict.Label,
		Score:        verdict.Score,
		ModelVersion: h.model,
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}

// Release is a no-op: the SDK client holds no resources worth tearing down
// per request.
func (h *anthropicHandle) Release() {}

// parseSentimentVerdict re-attaches the prefilled "{" and decodes the
// verdict, tolerating trailing prose after the closing brace.
func parseSentimentVerdict(responseText string) (*sentimentVerdict, error) {
	full := "{" + responseText
	if end := strings.Index(full, "}"); end != -1 {
		full = full[:end+1]
	}

	var verdict sentimentVerdict
	if err := json.Unmarshal([]byte(full), &verdict); err != nil {
		return nil, fmt.Errorf("decode sentiment verdict: %w", err)
	}
	if verdict.Label == "" {
		return nil, errors.New("sentiment verdict missing label")
	}
	if verdict.Score < 0 || verdict.Score > 1 {
		return nil, fmt.Errorf("sentiment confidence %v out of range", verdict.Score)
	}
	return &verdict, nil
}
