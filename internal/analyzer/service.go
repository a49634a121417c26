package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/inference"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/telemetry"
)

const defaultInferenceTimeout = 5 * time.Second

// HistoryStore persists analysis records. Implementations must be safe for
// concurrent use.
type HistoryStore interface {
	Insert(ctx context.Context, record *domain.AnalysisRecord) error
}

// ArchiveStore archives full analysis results for later search.
type ArchiveStore interface {
	ArchiveResult(ctx context.Context, id string, result *domain.AnalysisResult) error
}

// Config holds the service wiring. Provider, History, Reputation and
// Archive are optional; a nil value disables that concern without changing
// analyze behavior.
type Config struct {
	Provider      inference.Provider
	History       HistoryStore
	Reputation    *DomainReputationScorer
	Archive       ArchiveStore
	MaxInputChars int
	Timeout       time.Duration
}

// Service orchestrates content analysis: model-backed scoring when an
// inference backend answers, statistical fallback otherwise, plus cue
// scanning and best-effort persistence around every result.
type Service struct {
	mock       *MockScorer
	cues       *CueEngine
	provider   inference.Provider
	history    HistoryStore
	reputation *DomainReputationScorer
	archive    ArchiveStore
	telemetry  *telemetry.Provider
	logger     logger.Logger

	maxInputChars int
	timeout       time.Duration
}

// NewService creates the analysis service.
func NewService(
	mock *MockScorer,
	cues *CueEngine,
	tel *telemetry.Provider,
	log logger.Logger,
	cfg Config,
) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultInferenceTimeout
	}

	return &Service{
		mock:          mock,
		cues:          cues,
		provider:      cfg.Provider,
		history:       cfg.History,
		reputation:    cfg.Reputation,
		archive:       cfg.Archive,
		telemetry:     tel,
		logger:        log,
		maxInputChars: cfg.MaxInputChars,
		timeout:       timeout,
	}
}

// AnalyzeText analyzes free text. The inference backend is attempted fresh
// on every call; any acquisition or classification failure degrades to the
// statistical scorer. Never returns an error.
func (s *Service) AnalyzeText(ctx context.Context, text string) *domain.AnalysisResult {
	start := time.Now()

	outcome := telemetry.OutcomeMock
	providerName := domain.ProviderMock
	sentiment := "N/A"

	result, label := s.tryInference(ctx, text)
	if result != nil {
		outcome = telemetry.OutcomeInference
		providerName = s.provider.Name()
		sentiment = label
	} else {
		result = s.mock.Analyze(domain.ContentTypeText, text)
	}

	cues := s.scanCues(ctx, text)

	duration := time.Since(start)
	s.telemetry.RecordAnalysis(ctx, domain.ContentTypeText, outcome, duration)
	s.persist(ctx, result, domain.ExcerptOf(text), cues, providerName, sentiment, duration)

	return result
}

// AnalyzeURL analyzes a URL. No fetching occurs; the result is always
// statistical. The host's rolling reputation is updated as a side effect
// when a reputation store is configured. Never returns an error.
func (s *Service) AnalyzeURL(ctx context.Context, rawURL string) *domain.AnalysisResult {
	start := time.Now()

	result := s.mock.Analyze(domain.ContentTypeURL, rawURL)
	cues := s.scanCues(ctx, rawURL)

	if s.reputation != nil {
		if _, err := s.reputation.UpdateAfterAnalysis(ctx, rawURL, result.CredibilityScore); err != nil {
			s.logger.Warn("domain reputation update failed",
				logger.String("url", rawURL),
				logger.Error(err))
		}
	}

	duration := time.Since(start)
	s.telemetry.RecordAnalysis(ctx, domain.ContentTypeURL, telemetry.OutcomeMock, duration)
	s.persist(ctx, result, domain.ExcerptOf(rawURL), cues, domain.ProviderMock, "N/A", duration)

	return result
}

// AnalyzeImage decodes the uploaded bytes and reports dimensions with a
// statistical score. Returns an error when the bytes are not an image;
// nothing else fails.
func (s *Service) AnalyzeImage(ctx context.Context, data []byte) (*domain.AnalysisResult, error) {
	start := time.Now()

	info, err := DecodeImageInfo(data)
	if err != nil {
		s.telemetry.RecordImageDecodeFailure(ctx)
		s.telemetry.RecordAnalysis(ctx, domain.ContentTypeImage, telemetry.OutcomeError, time.Since(start))
		return nil, err
	}

	result := &domain.AnalysisResult{
		Type:             domain.ContentTypeImage,
		CredibilityScore: s.mock.ImageScore(),
		Analysis:         fmt.Sprintf("Image processed: %dx%d pixels", info.Width, info.Height),
		BasicAnalysis:    true,
	}

	duration := time.Since(start)
	s.telemetry.RecordAnalysis(ctx, domain.ContentTypeImage, telemetry.OutcomeMock, duration)
	excerpt := fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)
	s.persist(ctx, result, excerpt, nil, domain.ProviderMock, "N/A", duration)

	return result, nil
}

// AnalyzeItem dispatches a batch item to the matching single-item path.
func (s *Service) AnalyzeItem(ctx context.Context, item domain.BatchAnalysisItem) *domain.AnalysisResult {
	if item.Type == domain.ContentTypeURL {
		return s.AnalyzeURL(ctx, item.URL)
	}
	return s.AnalyzeText(ctx, item.Text)
}

// tryInference runs one acquire-classify-release cycle against the
// configured backend. Returns (nil, "") whenever the analysis should fall
// back; the handle is released on every exit path.
func (s *Service) tryInference(ctx context.Context, text string) (*domain.AnalysisResult, string) {
	if s.provider == nil {
		return nil, ""
	}
	name := s.provider.Name()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	attemptStart := time.Now()
	handle, err := s.provider.Acquire(ctx)
	if err != nil {
		outcome := "error"
		if errors.Is(err, inference.ErrUnavailable) {
			outcome = "unavailable"
		}
		s.telemetry.RecordInferenceAttempt(ctx, name, outcome, time.Since(attemptStart))
		s.logInferenceFailure(name, "acquire", err)
		return nil, ""
	}
	defer handle.Release()

	input := text
	if s.maxInputChars > 0 && len(input) > s.maxInputChars {
		input = input[:s.maxInputChars]
	}

	sentiment, err := handle.Classify(ctx, input)
	if err != nil {
		s.telemetry.RecordInferenceAttempt(ctx, name, "error", time.Since(attemptStart))
		s.logInferenceFailure(name, "classify", err)
		return nil, ""
	}

	s.telemetry.RecordInferenceAttempt(ctx, name, "success", time.Since(attemptStart))
	s.logInferenceSuccess(name, input, sentiment)

	return &domain.AnalysisResult{
		Type:             domain.ContentTypeText,
		CredibilityScore: sentiment.Score,
		Analysis:         "Text sentiment: " + sentiment.Label,
		Simplified:       true,
	}, sentiment.Label
}

// scanCues runs the cue engine over the input and records the matches.
// Cue matches never alter the analysis result.
func (s *Service) scanCues(ctx context.Context, input string) []CueMatch {
	if s.cues == nil || input == "" {
		return nil
	}

	scanStart := time.Now()
	matches := s.cues.Match(input)

	byCategory := make(map[string]int, len(matches))
	for _, m := range matches {
		byCategory[m.Category] = m.Count
	}
	s.telemetry.RecordCueScan(ctx, time.Since(scanStart), byCategory)

	if len(matches) > 0 {
		s.logger.Debug("credibility cues matched",
			logger.Strings("categories", CueCategories(matches)),
			logger.String("input_excerpt", truncateWords(input, inputExcerptWordLimit)))
	}

	return matches
}

// persist writes the analysis record and archives the result, best-effort.
// Failures are logged and never surfaced to the caller.
func (s *Service) persist(
	ctx context.Context,
	result *domain.AnalysisResult,
	excerpt string,
	cues []CueMatch,
	provider, sentiment string,
	duration time.Duration,
) {
	if s.history == nil && s.archive == nil {
		return
	}

	id := uuid.NewString()

	if s.history != nil {
		record := &domain.AnalysisRecord{
			ID:            id,
			ContentType:   result.Type,
			InputExcerpt:  excerpt,
			Score:         result.CredibilityScore,
			Flags:         result.Flags.RaisedFlags(),
			Sentiment:     sentiment,
			KeyTerms:      keyTermsOf(result),
			CueCategories: cueCategoriesOrEmpty(cues),
			Provider:      provider,
			Fallback:      provider == domain.ProviderMock,
			DurationMs:    duration.Milliseconds(),
		}
		if err := s.history.Insert(ctx, record); err != nil {
			s.logger.Warn("analysis history insert failed",
				logger.String("analysis_id", id),
				logger.String("content_type", result.Type),
				logger.Error(err))
		}
	}

	if s.archive != nil {
		if err := s.archive.ArchiveResult(ctx, id, result); err != nil {
			s.logger.Warn("analysis archive failed",
				logger.String("analysis_id", id),
				logger.String("content_type", result.Type),
				logger.Error(err))
		}
	}
}

func keyTermsOf(result *domain.AnalysisResult) []string {
	if result.Details == nil {
		return []string{}
	}
	return result.Details.KeyTerms
}

func cueCategoriesOrEmpty(cues []CueMatch) []string {
	cats := CueCategories(cues)
	if cats == nil {
		return []string{}
	}
	return cats
}
