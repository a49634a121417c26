package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/analyzer/internal/domain"
)

const defaultRecentLimit = 20

// AnalysisHistoryRepository handles database operations for analysis history.
type AnalysisHistoryRepository struct {
	db *sqlx.DB
}

// NewAnalysisHistoryRepository creates a new analysis history repository.
func NewAnalysisHistoryRepository(db *sqlx.DB) *AnalysisHistoryRepository {
	return &AnalysisHistoryRepository{db: db}
}

// AnalysisStats represents overall analysis statistics.
type AnalysisStats struct {
	TotalAnalyses int            `json:"total_analyses"`
	AvgScore      float64        `json:"avg_score"`
	FallbackCount int            `json:"fallback_count"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	ContentTypes  map[string]int `json:"content_types"`
}

// FallbackRatio returns the fraction of analyses served by the statistical
// fallback rather than an inference backend.
func (s *AnalysisStats) FallbackRatio() float64 {
	if s.TotalAnalyses == 0 {
		return 0
	}
	return float64(s.FallbackCount) / float64(s.TotalAnalyses)
}

// FlagStat represents how often a single warning flag was raised.
type FlagStat struct {
	Flag  string `json:"flag"  db:"flag"`
	Count int    `json:"count" db:"count"`
}

// Insert stores a new analysis record.
func (r *AnalysisHistoryRepository) Insert(ctx context.Context, record *domain.AnalysisRecord) error {
	query := `
		INSERT INTO analysis_history (
			id, content_type, input_excerpt, score, flags, sentiment,
			key_terms, cue_categories, provider, fallback, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		record.ID,
		record.ContentType,
		record.InputExcerpt,
		record.Score,
		pq.Array(record.Flags),
		record.Sentiment,
		pq.Array(record.KeyTerms),
		pq.Array(record.CueCategories),
		record.Provider,
		record.Fallback,
		record.DurationMs,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}

	return nil
}

// GetByID retrieves an analysis record by its ID.
func (r *AnalysisHistoryRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	var record domain.AnalysisRecord
	query := `
		SELECT id, content_type, input_excerpt, score, flags, sentiment,
		       key_terms, cue_categories, provider, fallback, duration_ms, created_at
		FROM analysis_history
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.ContentType,
		&record.InputExcerpt,
		&record.Score,
		pq.Array(&record.Flags),
		&record.Sentiment,
		pq.Array(&record.KeyTerms),
		pq.Array(&record.CueCategories),
		&record.Provider,
		&record.Fallback,
		&record.DurationMs,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis record %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}

	return &record, nil
}

// Recent retrieves the most recent analysis records, newest first.
func (r *AnalysisHistoryRepository) Recent(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `
		SELECT id, content_type, input_excerpt, score, flags, sentiment,
		       key_terms, cue_categories, provider, fallback, duration_ms, created_at
		FROM analysis_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AnalysisRecord, 0, limit)
	for rows.Next() {
		var record domain.AnalysisRecord
		if err := rows.Scan(
			&record.ID,
			&record.ContentType,
			&record.InputExcerpt,
			&record.Score,
			pq.Array(&record.Flags),
			&record.Sentiment,
			pq.Array(&record.KeyTerms),
			pq.Array(&record.CueCategories),
			&record.Provider,
			&record.Fallback,
			&record.DurationMs,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis records: %w", err)
	}

	return records, nil
}

// GetStats retrieves overall analysis statistics.
func (r *AnalysisHistoryRepository) GetStats(ctx context.Context) (*AnalysisStats, error) {
	var stats AnalysisStats

	query := `
		SELECT
			COUNT(*) as total_analyses,
			COALESCE(AVG(score), 0) as avg_score,
			COALESCE(SUM(CASE WHEN fallback THEN 1 ELSE 0 END), 0) as fallback_count,
			COALESCE(AVG(duration_ms), 0) as avg_duration_ms
		FROM analysis_history
	`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalAnalyses,
		&stats.AvgScore,
		&stats.FallbackCount,
		&stats.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis stats: %w", err)
	}

	stats.ContentTypes = make(map[string]int)
	typeQuery := `
		SELECT content_type, COUNT(*) as count
		FROM analysis_history
		GROUP BY content_type
	`

	rows, err := r.db.QueryContext(ctx, typeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentType string
		var count int
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan content type: %w", err)
		}
		stats.ContentTypes[contentType] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content types: %w", err)
	}

	return &stats, nil
}

// GetFlagStats retrieves how often each warning flag was raised.
func (r *AnalysisHistoryRepository) GetFlagStats(ctx context.Context) ([]*FlagStat, error) {
	var stats []*FlagStat

	// Unnest the flags array and aggregate
	query := `
		SELECT
			unnest(flags) as flag,
			COUNT(*) as count
		FROM analysis_history
		WHERE flags IS NOT NULL AND array_length(flags, 1) > 0
		GROUP BY flag
		ORDER BY count DESC
	`

	err := r.db.SelectContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get flag stats: %w", err)
	}

	return stats, nil
}
