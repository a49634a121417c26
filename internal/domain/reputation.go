package domain

import (
	"net/url"
	"strings"
	"time"
)

// Domain reputation ranks, ordered from most to least credible.
const (
	DomainRankTrusted      = "trusted"
	DomainRankModerate     = "moderate"
	DomainRankLow          = "low"
	DomainRankQuestionable = "questionable"
)

// DomainReputation tracks aggregate credibility statistics for a web host
// observed through URL analyses. AvgScore is a rolling average of
// credibility scores (0.0-1.0); Reputation is the derived 0-100 standing.
type DomainReputation struct {
	ID             int        `db:"id"               json:"id"`
	Domain         string     `db:"domain"           json:"domain"`
	TotalAnalyses  int        `db:"total_analyses"   json:"total_analyses"`
	AvgScore       float64    `db:"avg_score"        json:"avg_score"`
	LowScoreCount  int        `db:"low_score_count"  json:"low_score_count"`
	LastScore      float64    `db:"last_score"       json:"last_score"`
	Reputation     float64    `db:"reputation"       json:"reputation"`
	Rank           string     `db:"rank"             json:"rank"`
	LastAnalyzedAt *time.Time `db:"last_analyzed_at" json:"last_analyzed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"       json:"updated_at"`
}

// LowScoreRatio returns the fraction of analyses that scored below the
// low-credibility threshold.
func (d *DomainReputation) LowScoreRatio() float64 {
	if d.TotalAnalyses == 0 {
		return 0
	}
	return float64(d.LowScoreCount) / float64(d.TotalAnalyses)
}

// NormalizeDomain extracts the host from a URL and strips the www. prefix
// and any port. Inputs that do not parse as a URL with a host are returned
// unchanged so callers can still aggregate on whatever was submitted.
func NormalizeDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
