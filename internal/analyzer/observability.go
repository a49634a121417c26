package analyzer

import (
	"strings"

	"github.com/jonesrussell/analyzer/internal/inference"
	"github.com/jonesrussell/analyzer/internal/logger"
)

const inputExcerptWordLimit = 10

// truncateWords returns the first n words of s, appending "..." if truncated.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

// classifyErrorType categorizes an inference backend error message for
// dashboard filtering.
func classifyErrorType(errMsg string) string {
	lower := strings.ToLower(errMsg)
	switch {
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "timeout"
	case strings.Contains(lower, "returned 5"):
		return "5xx"
	case strings.Contains(lower, "returned 4"):
		return "4xx"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "no such host"):
		return "connection"
	case strings.Contains(lower, "decode") || strings.Contains(lower, "unmarshal") ||
		strings.Contains(lower, "eof"):
		return "decode"
	default:
		return "unknown"
	}
}

// logInferenceSuccess emits a structured Info log for a model-backed result.
func (s *Service) logInferenceSuccess(provider, input string, sentiment *inference.Sentiment) {
	s.logger.Info("inference classification complete",
		logger.String("provider", provider),
		logger.String("input_excerpt", truncateWords(input, inputExcerptWordLimit)),
		logger.String("label", sentiment.Label),
		logger.Float64("score", sentiment.Score),
		logger.String("model_version", sentiment.ModelVersion),
		logger.Int64("latency_ms", sentiment.LatencyMs),
		logger.String("outcome", "success"),
	)
}

// logInferenceFailure emits a structured Warn log when an inference attempt
// fails and the analysis falls back to the statistical scorer.
func (s *Service) logInferenceFailure(provider, stage string, err error) {
	s.logger.Warn("inference attempt failed, falling back",
		logger.String("provider", provider),
		logger.String("stage", stage),
		logger.String("error_type", classifyErrorType(err.Error())),
		logger.String("error_detail", err.Error()),
	)
}
