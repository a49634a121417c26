package analyzer_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jonesrussell/analyzer/internal/analyzer"
	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/testhelpers"
)

func newTestScorer(store analyzer.DomainReputationStore) *analyzer.DomainReputationScorer {
	return analyzer.NewDomainReputationScorer(logger.NewNop(), store)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDomainReputationScorer_FirstAnalysis(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryReputationStore()
	scorer := newTestScorer(store)

	rep, err := scorer.UpdateAfterAnalysis(context.Background(), "https://www.example.com/story", 0.8)
	if err != nil {
		t.Fatalf("UpdateAfterAnalysis() error = %v", err)
	}

	if rep.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", rep.Domain)
	}
	if rep.TotalAnalyses != 1 {
		t.Errorf("TotalAnalyses = %d, want 1", rep.TotalAnalyses)
	}
	if !almostEqual(rep.AvgScore, 0.8) {
		t.Errorf("AvgScore = %v, want 0.8", rep.AvgScore)
	}
	if rep.LastScore != 0.8 {
		t.Errorf("LastScore = %v, want 0.8", rep.LastScore)
	}
	if rep.LowScoreCount != 0 {
		t.Errorf("LowScoreCount = %d, want 0", rep.LowScoreCount)
	}
	// 0.8 avg with no low scores maps straight onto the 0-100 scale.
	if !almostEqual(rep.Reputation, 80.0) {
		t.Errorf("Reputation = %v, want 80", rep.Reputation)
	}
	// 80 clears the trusted threshold but one analysis is not established.
	if rep.Rank != domain.DomainRankModerate {
		t.Errorf("Rank = %q, want %q", rep.Rank, domain.DomainRankModerate)
	}
	if rep.LastAnalyzedAt == nil {
		t.Error("LastAnalyzedAt not set")
	}
}

func TestDomainReputationScorer_RollingAverage(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryReputationStore()
	scorer := newTestScorer(store)
	ctx := context.Background()

	if _, err := scorer.UpdateAfterAnalysis(ctx, "https://example.com/a", 0.8); err != nil {
		t.Fatalf("first update: %v", err)
	}
	rep, err := scorer.UpdateAfterAnalysis(ctx, "https://example.com/b", 0.4)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if rep.TotalAnalyses != 2 {
		t.Errorf("TotalAnalyses = %d, want 2", rep.TotalAnalyses)
	}
	if !almostEqual(rep.AvgScore, 0.6) {
		t.Errorf("AvgScore = %v, want 0.6", rep.AvgScore)
	}
	// 0.4 sits on the low-score threshold, not below it.
	if rep.LowScoreCount != 0 {
		t.Errorf("LowScoreCount = %d, want 0", rep.LowScoreCount)
	}
	if rep.LastScore != 0.4 {
		t.Errorf("LastScore = %v, want 0.4", rep.LastScore)
	}
	if !almostEqual(rep.Reputation, 60.0) {
		t.Errorf("Reputation = %v, want 60", rep.Reputation)
	}
	if rep.Rank != domain.DomainRankModerate {
		t.Errorf("Rank = %q, want %q", rep.Rank, domain.DomainRankModerate)
	}
}

func TestDomainReputationScorer_LowScoresDecayReputation(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryReputationStore()
	scorer := newTestScorer(store)

	rep, err := scorer.UpdateAfterAnalysis(context.Background(), "https://sketchy.test/x", 0.2)
	if err != nil {
		t.Fatalf("UpdateAfterAnalysis() error = %v", err)
	}

	if rep.LowScoreCount != 1 {
		t.Errorf("LowScoreCount = %d, want 1", rep.LowScoreCount)
	}
	// avg 0.2 -> 20, decayed by the full low-score ratio: 20 * (1 - 0.1) = 18.
	if !almostEqual(rep.Reputation, 18.0) {
		t.Errorf("Reputation = %v, want 18", rep.Reputation)
	}
	if rep.Rank != domain.DomainRankQuestionable {
		t.Errorf("Rank = %q, want %q", rep.Rank, domain.DomainRankQuestionable)
	}
}

func TestDomainReputationScorer_TrustBoostWhenEstablished(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryReputationStore()
	scorer := newTestScorer(store)
	ctx := context.Background()

	var rep *domain.DomainReputation
	var err error
	for i := 0; i < 10; i++ {
		rep, err = scorer.UpdateAfterAnalysis(ctx, "https://reliable.example.org/p", 0.8)
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	if rep.TotalAnalyses != 10 {
		t.Fatalf("TotalAnalyses = %d, want 10", rep.TotalAnalyses)
	}
	// Established host with a clean record: 80 * 1.1 = 88, trusted.
	if !almostEqual(rep.Reputation, 88.0) {
		t.Errorf("Reputation = %v, want 88", rep.Reputation)
	}
	if rep.Rank != domain.DomainRankTrusted {
		t.Errorf("Rank = %q, want %q", rep.Rank, domain.DomainRankTrusted)
	}
}

func TestDomainReputationScorer_ReputationCappedAt100(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryReputationStore()
	scorer := newTestScorer(store)
	ctx := context.Background()

	var rep *domain.DomainReputation
	var err error
	for i := 0; i < 12; i++ {
		rep, err = scorer.UpdateAfterAnalysis(ctx, "https://stellar.example.net/", 1.0)
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	if rep.Reputation != 100.0 {
		t.Errorf("Reputation = %v, want capped at 100", rep.Reputation)
	}
	if rep.Rank != domain.DomainRankTrusted {
		t.Errorf("Rank = %q, want %q", rep.Rank, domain.DomainRankTrusted)
	}
}

func TestDomainReputationScorer_HostsAggregateAcrossURLs(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryReputationStore()
	scorer := newTestScorer(store)
	ctx := context.Background()

	urls := []string{
		"https://news.example.com/a",
		"https://www.news.example.com/b",
		"http://news.example.com:8080/c",
	}
	for _, u := range urls {
		if _, err := scorer.UpdateAfterAnalysis(ctx, u, 0.7); err != nil {
			t.Fatalf("update %q: %v", u, err)
		}
	}

	rep, err := store.GetByDomain(ctx, "news.example.com")
	if err != nil {
		t.Fatalf("GetByDomain: %v", err)
	}
	if rep.TotalAnalyses != 3 {
		t.Errorf("TotalAnalyses = %d, want 3 (www/port variants share one host)", rep.TotalAnalyses)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d hosts, want 1", store.Len())
	}
}

type failingReputationStore struct {
	getErr    error
	updateErr error
}

func (f *failingReputationStore) GetOrCreate(_ context.Context, host string) (*domain.DomainReputation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.DomainReputation{Domain: host, Rank: domain.DomainRankQuestionable}, nil
}

func (f *failingReputationStore) Update(_ context.Context, _ *domain.DomainReputation) error {
	return f.updateErr
}

func TestDomainReputationScorer_StoreErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("connection refused")

	scorer := newTestScorer(&failingReputationStore{getErr: boom})
	if _, err := scorer.UpdateAfterAnalysis(ctx, "https://example.com", 0.5); !errors.Is(err, boom) {
		t.Errorf("get failure not propagated: %v", err)
	}

	scorer = newTestScorer(&failingReputationStore{updateErr: boom})
	if _, err := scorer.UpdateAfterAnalysis(ctx, "https://example.com", 0.5); !errors.Is(err, boom) {
		t.Errorf("update failure not propagated: %v", err)
	}
}
