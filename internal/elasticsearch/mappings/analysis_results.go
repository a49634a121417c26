package mappings

// AnalysisResultsMapping represents the Elasticsearch mapping for archived
// analysis results
type AnalysisResultsMapping struct {
	Settings AnalysisResultsSettings `json:"settings"`
	Mappings AnalysisResultsMappings `json:"mappings"`
}

// AnalysisResultsSettings defines index-level settings
type AnalysisResultsSettings struct {
	BaseSettings
}

// AnalysisResultsMappings defines the field mappings for archived results
type AnalysisResultsMappings struct {
	Properties AnalysisResultsProperties `json:"properties"`
}

// AnalysisResultsProperties defines the properties for each field in the
// analysis results mapping
type AnalysisResultsProperties struct {
	// Core identifiers
	ID          Field `json:"id"`
	ContentType Field `json:"content_type"`

	// Scoring
	CredibilityScore Field `json:"credibility_score"`
	Analysis         Field `json:"analysis"`

	// Warning flags and attribution
	Flags   Field `json:"flags"`
	Sources Field `json:"sources"`

	// Detail fields
	Sentiment Field `json:"sentiment"`
	KeyTerms  Field `json:"key_terms"`

	// Analysis path markers
	Simplified    Field `json:"simplified"`
	BasicAnalysis Field `json:"basic_analysis"`

	// Timestamps
	ArchivedAt Field `json:"archived_at"`
}

// NewAnalysisResultsMapping creates a new analysis results mapping with
// default settings
func NewAnalysisResultsMapping() *AnalysisResultsMapping {
	return &AnalysisResultsMapping{
		Settings: AnalysisResultsSettings{
			BaseSettings: DefaultSettings(),
		},
		Mappings: AnalysisResultsMappings{
			Properties: AnalysisResultsProperties{
				ID: Field{
					Type: "keyword",
				},
				ContentType: Field{
					Type: "keyword",
				},
				CredibilityScore: Field{
					Type: "double",
				},
				Analysis: Field{
					Type:     "text",
					Analyzer: "standard",
				},
				Flags: Field{
					Type: "keyword",
				},
				Sources: Field{
					Type: "keyword",
				},
				Sentiment: Field{
					Type: "keyword",
				},
				KeyTerms: Field{
					Type: "keyword",
				},
				Simplified: Field{
					Type: "boolean",
				},
				BasicAnalysis: Field{
					Type: "boolean",
				},
				ArchivedAt: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},
			},
		},
	}
}

// GetJSON returns the analysis results mapping as a JSON string
func (m *AnalysisResultsMapping) GetJSON() (string, error) {
	return ToJSON(m)
}

// Validate validates the analysis results mapping configuration
func (m *AnalysisResultsMapping) Validate() error {
	return ValidateSettings(m.Settings.BaseSettings)
}
