package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/logger"
)

// Reputation scoring thresholds on the 0-100 reputation scale.
const (
	trustedRankThreshold  = 75
	moderateRankThreshold = 50
	lowRankThreshold      = 30

	// Boost applied to established hosts with a clean record.
	trustBoostFactor    = 1.1
	trustMinAvgScore    = 0.7
	trustMaxLowRatio    = 0.05
	reputationScaleMax  = 100
	credibilityToRepMul = 100
)

// Default reputation configuration values.
const (
	defaultReputationScore     = 50.0
	defaultLowScoreThreshold   = 0.4
	defaultMinAnalysesForTrust = 10
	defaultReputationDecayRate = 0.1
)

// DomainReputationStore defines the persistence operations the scorer
// needs.
type DomainReputationStore interface {
	GetOrCreate(ctx context.Context, host string) (*domain.DomainReputation, error)
	Update(ctx context.Context, rep *domain.DomainReputation) error
}

// DomainReputationConfig tunes how host reputation reacts to analyses.
type DomainReputationConfig struct {
	DefaultReputation   float64 // Reputation before any analyses (0-100)
	LowScoreThreshold   float64 // Credibility below this counts against the host
	MinAnalysesForTrust int     // Analyses needed before a host is established
	DecayRate           float64 // Penalty weight for the low-score ratio (0.0-1.0)
}

// DomainReputationScorer maintains rolling credibility statistics per host.
type DomainReputationScorer struct {
	logger logger.Logger
	store  DomainReputationStore
	config DomainReputationConfig
}

// NewDomainReputationScorer creates a scorer with default configuration.
func NewDomainReputationScorer(log logger.Logger, store DomainReputationStore) *DomainReputationScorer {
	return NewDomainReputationScorerWithConfig(log, store, DomainReputationConfig{
		DefaultReputation:   defaultReputationScore,
		LowScoreThreshold:   defaultLowScoreThreshold,
		MinAnalysesForTrust: defaultMinAnalysesForTrust,
		DecayRate:           defaultReputationDecayRate,
	})
}

// NewDomainReputationScorerWithConfig creates a scorer with custom
// configuration.
func NewDomainReputationScorerWithConfig(
	log logger.Logger,
	store DomainReputationStore,
	config DomainReputationConfig,
) *DomainReputationScorer {
	return &DomainReputationScorer{
		logger: log,
		store:  store,
		config: config,
	}
}

// UpdateAfterAnalysis folds one URL analysis into the host's rolling
// statistics and recomputes its reputation and rank.
func (s *DomainReputationScorer) UpdateAfterAnalysis(
	ctx context.Context,
	rawURL string,
	credibilityScore float64,
) (*domain.DomainReputation, error) {
	host := domain.NormalizeDomain(rawURL)

	rep, err := s.store.GetOrCreate(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("get domain reputation: %w", err)
	}

	rep.TotalAnalyses++
	if rep.TotalAnalyses == 1 {
		rep.AvgScore = credibilityScore
	} else {
		rep.AvgScore = (rep.AvgScore*float64(rep.TotalAnalyses-1) + credibilityScore) /
			float64(rep.TotalAnalyses)
	}
	if credibilityScore < s.config.LowScoreThreshold {
		rep.LowScoreCount++
	}
	rep.LastScore = credibilityScore
	rep.Reputation = s.computeReputation(rep)
	rep.Rank = s.rankFor(rep.Reputation, rep.TotalAnalyses)
	now := time.Now().UTC()
	rep.LastAnalyzedAt = &now

	if err := s.store.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update domain reputation: %w", err)
	}

	s.logger.Debug("domain reputation updated",
		logger.String("host", host),
		logger.Float64("reputation", rep.Reputation),
		logger.String("rank", rep.Rank),
		logger.Int("total_analyses", rep.TotalAnalyses),
		logger.Float64("avg_score", rep.AvgScore))

	return rep, nil
}

// computeReputation maps the rolling statistics onto the 0-100 scale.
func (s *DomainReputationScorer) computeReputation(rep *domain.DomainReputation) float64 {
	if rep.TotalAnalyses == 0 {
		return s.config.DefaultReputation
	}

	score := rep.AvgScore * credibilityToRepMul

	lowRatio := rep.LowScoreRatio()
	score *= 1.0 - lowRatio*s.config.DecayRate

	if rep.TotalAnalyses >= s.config.MinAnalysesForTrust &&
		rep.AvgScore >= trustMinAvgScore && lowRatio < trustMaxLowRatio {
		score *= trustBoostFactor
	}

	if score < 0 {
		score = 0
	}
	if score > reputationScaleMax {
		score = reputationScaleMax
	}

	return score
}

// rankFor buckets a reputation score, requiring an established history for
// the trusted rank.
func (s *DomainReputationScorer) rankFor(reputation float64, totalAnalyses int) string {
	isEstablished := totalAnalyses >= s.config.MinAnalysesForTrust

	switch {
	case reputation >= trustedRankThreshold && isEstablished:
		return domain.DomainRankTrusted
	case reputation >= moderateRankThreshold:
		return domain.DomainRankModerate
	case reputation >= lowRankThreshold:
		return domain.DomainRankLow
	default:
		return domain.DomainRankQuestionable
	}
}
