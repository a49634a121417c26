package domain

import "time"

// Analysis providers recorded in history rows.
const (
	ProviderSidecar   = "sidecar"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// maxInputExcerptLen bounds the input excerpt stored with each history row.
const maxInputExcerptLen = 280

// AnalysisRecord is one row of the analysis history: what was analyzed, how
// it scored, and which path produced the result. Persistence is best-effort
// and never read back on an analyze request.
type AnalysisRecord struct {
	ID            string    `db:"id"             json:"id"`
	ContentType   string    `db:"content_type"   json:"content_type"`
	InputExcerpt  string    `db:"input_excerpt"  json:"input_excerpt"`
	Score         float64   `db:"score"          json:"score"`
	Flags         []string  `db:"flags"          json:"flags"`
	Sentiment     string    `db:"sentiment"      json:"sentiment"`
	KeyTerms      []string  `db:"key_terms"      json:"key_terms"`
	CueCategories []string  `db:"cue_categories" json:"cue_categories"`
	Provider      string    `db:"provider"       json:"provider"`
	Fallback      bool      `db:"fallback"       json:"fallback"`
	DurationMs    int64     `db:"duration_ms"    json:"duration_ms"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}

// RaisedFlags returns the names of the set warning flags, in a fixed order.
// Returns an empty slice when no flags are raised so the value stores as an
// empty array rather than NULL.
func (f *AnalysisFlags) RaisedFlags() []string {
	raised := make([]string, 0, 4)
	if f == nil {
		return raised
	}
	if f.PotentialMisinformation {
		raised = append(raised, "potential_misinformation")
	}
	if f.NeedsFactChecking {
		raised = append(raised, "needs_fact_checking")
	}
	if f.BiasDetected {
		raised = append(raised, "bias_detected")
	}
	if f.ManipulatedContent {
		raised = append(raised, "manipulated_content")
	}
	return raised
}

// ExcerptOf trims input to the stored excerpt length on a rune boundary.
func ExcerptOf(input string) string {
	runes := []rune(input)
	if len(runes) <= maxInputExcerptLen {
		return input
	}
	return string(runes[:maxInputExcerptLen])
}
