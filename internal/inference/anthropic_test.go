package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/analyzer/internal/logger"
)

func TestParseSentimentVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		response  string // model output after the prefilled "{"
		wantLabel string
		wantScore float64
		wantErr   bool
	}{
		{
			name:      "clean verdict",
			response:  `"label": "POSITIVE", "score": 0.92}`,
			wantLabel: "POSITIVE",
			wantScore: 0.92,
		},
		{
			name:      "trailing prose after the object",
			response:  `"label": "NEGATIVE", "score": 0.3} I hope that helps!`,
			wantLabel: "NEGATIVE",
			wantScore: 0.3,
		},
		{
			name:      "boundary scores",
			response:  `"label": "POSITIVE", "score": 1}`,
			wantLabel: "POSITIVE",
			wantScore: 1,
		},
		{
			name:     "missing label",
			response: `"score": 0.5}`,
			wantErr:  true,
		},
		{
			name:     "score above one",
			response: `"label": "POSITIVE", "score": 1.5}`,
			wantErr:  true,
		},
		{
			name:     "negative score",
			response: `"label": "NEGATIVE", "score": -0.1}`,
			wantErr:  true,
		},
		{
			name:     "not json",
			response: `sure, the sentiment is positive`,
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: ``,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := parseSentimentVerdict(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSentimentVerdict(%q) = %+v, want error", tt.response, verdict)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSentimentVerdict(%q) error = %v", tt.response, err)
			}
			if verdict.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", verdict.Label, tt.wantLabel)
			}
			if verdict.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", verdict.Score, tt.wantScore)
			}
		})
	}
}

func TestAnthropicProvider_UnavailableWithoutKey(t *testing.T) {
	t.Parallel()

	provider := NewAnthropicProvider(AnthropicConfig{Model: "claude-3-5-haiku-latest"}, logger.NewNop())
	if provider.Name() != "anthropic" {
		t.Errorf("Name() = %q, want anthropic", provider.Name())
	}

	_, err := provider.Acquire(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Acquire() without key = %v, want ErrUnavailable", err)
	}
}

func TestAnthropicProvider_AcquireWithKey(t *testing.T) {
	t.Parallel()

	provider := NewAnthropicProvider(AnthropicConfig{
		APIKey: "sk-ant-test",
		Model:  "claude-3-5-haiku-latest",
	}, logger.NewNop())

	handle, err := provider.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() with key error = %v", err)
	}

	handle.Release()
	handle.Release() // no-op, must not panic
}
