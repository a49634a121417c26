package api

import (
	"github.com/jonesrussell/analyzer/internal/database"
	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/storage"
)

// RootResponse is the capability descriptor served on GET /.
type RootResponse struct {
	Message         string            `json:"message"`
	Status          string            `json:"status"`
	MemoryOptimized bool              `json:"memory_optimized"`
	Endpoints       map[string]string `json:"endpoints"`
}

// ServiceHealthResponse is the public health contract on GET /health. Always
// 200; dependency state lives on /health/ready.
type ServiceHealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}

// AnalyzeResponse wraps a single analysis result.
type AnalyzeResponse struct {
	Result *domain.AnalysisResult `json:"result"`
}

// BatchAnalyzeRequest carries the items for a batch analysis.
type BatchAnalyzeRequest struct {
	Items []domain.BatchAnalysisItem `json:"items" binding:"required,min=1,dive"`
}

// BatchAnalyzeResponse returns batch results in submission order.
type BatchAnalyzeResponse struct {
	Results []*domain.AnalysisResult `json:"results"`
	Count   int                      `json:"count"`
}

// ShareResponse returns the created share link.
type ShareResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// HistoryResponse lists recent analysis records.
type HistoryResponse struct {
	Records []*domain.AnalysisRecord `json:"records"`
	Count   int                      `json:"count"`
}

// StatsResponse aggregates history statistics for the admin API.
type StatsResponse struct {
	TotalAnalyses int                  `json:"total_analyses"`
	AvgScore      float64              `json:"avg_score"`
	FallbackCount int                  `json:"fallback_count"`
	FallbackRatio float64              `json:"fallback_ratio"`
	AvgDurationMs float64              `json:"avg_duration_ms"`
	ContentTypes  map[string]int       `json:"content_types"`
	Flags         []*database.FlagStat `json:"flags"`
}

// DomainsResponse lists domain reputations.
type DomainsResponse struct {
	Domains []*domain.DomainReputation `json:"domains"`
	Count   int                        `json:"count"`
}

// SearchResponse lists archived analyses matching a search term.
type SearchResponse struct {
	Results []*storage.ArchivedAnalysis `json:"results"`
	Count   int                         `json:"count"`
}

func toStatsResponse(stats *database.AnalysisStats, flags []*database.FlagStat) StatsResponse {
	if flags == nil {
		flags = []*database.FlagStat{}
	}
	return StatsResponse{
		TotalAnalyses: stats.TotalAnalyses,
		AvgScore:      stats.AvgScore,
		FallbackCount: stats.FallbackCount,
		FallbackRatio: stats.FallbackRatio(),
		AvgDurationMs: stats.AvgDurationMs,
		ContentTypes:  stats.ContentTypes,
		Flags:         flags,
	}
}
