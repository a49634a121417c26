package domain

// Content types accepted by the analysis endpoints.
const (
	ContentTypeText  = "text"
	ContentTypeURL   = "url"
	ContentTypeImage = "image"
	ContentTypeVideo = "video"
)

// AnalysisResult represents the result of analyzing a piece of content.
// Flags, Sources and Details are populated by the mock scorer; the
// model-backed text path and the image path return the slimmer shape with
// Simplified or BasicAnalysis set instead.
type AnalysisResult struct {
	Type             string  `json:"type"`
	CredibilityScore float64 `json:"credibilityScore"` // 0.0-1.0
	Analysis         string  `json:"analysis"`

	Flags   *AnalysisFlags   `json:"flags,omitempty"`
	Sources []string         `json:"sources,omitempty"`
	Details *AnalysisDetails `json:"details,omitempty"`

	// Simplified marks results from the model-backed text path.
	Simplified bool `json:"simplified,omitempty"`
	// BasicAnalysis marks image results (dimensions only, no content analysis).
	BasicAnalysis bool `json:"basic_analysis,omitempty"`
}

// AnalysisFlags holds the content warning flags attached to mock results.
type AnalysisFlags struct {
	PotentialMisinformation bool `json:"potentialMisinformation"`
	NeedsFactChecking       bool `json:"needsFactChecking"`
	BiasDetected            bool `json:"biasDetected"`
	ManipulatedContent      bool `json:"manipulatedContent"`
}

// AnalysisDetails holds the secondary signals attached to mock results.
type AnalysisDetails struct {
	Sentiment  string   `json:"sentiment"`
	Confidence float64  `json:"confidence"` // 0.0-1.0
	KeyTerms   []string `json:"keyTerms"`
}

// RequiresReview reports whether the result carries flags that warrant a
// human look: suspected misinformation or manipulated content.
func (r *AnalysisResult) RequiresReview() bool {
	if r.Flags == nil {
		return false
	}
	return r.Flags.PotentialMisinformation || r.Flags.ManipulatedContent
}

// TextAnalysisRequest is the body of POST /analyze/text.
// Text is a pointer so that a present-but-empty string passes the presence
// check while a missing field is rejected.
type TextAnalysisRequest struct {
	Text *string `json:"text" binding:"required"`
}

// URLAnalysisRequest is the body of POST /analyze/url.
type URLAnalysisRequest struct {
	URL *string `json:"url" binding:"required"`
}

// BatchAnalysisItem is a single entry in a batch analysis request. Exactly
// one of Text or URL is meaningful, selected by Type; the other is ignored.
type BatchAnalysisItem struct {
	Type string `json:"type" binding:"required,oneof=text url"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Input returns the content carried by the item for its declared type.
func (i BatchAnalysisItem) Input() string {
	if i.Type == ContentTypeURL {
		return i.URL
	}
	return i.Text
}
