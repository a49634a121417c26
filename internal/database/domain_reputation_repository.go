package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/analyzer/internal/domain"
)

const defaultTopDomainsLimit = 50

// DomainReputationRepository handles database operations for domain reputation.
type DomainReputationRepository struct {
	db *sqlx.DB
}

// NewDomainReputationRepository creates a new domain reputation repository.
func NewDomainReputationRepository(db *sqlx.DB) *DomainReputationRepository {
	return &DomainReputationRepository{db: db}
}

// GetByDomain retrieves reputation for a host.
func (r *DomainReputationRepository) GetByDomain(ctx context.Context, host string) (*domain.DomainReputation, error) {
	var rep domain.DomainReputation
	query := `
		SELECT id, domain, total_analyses, avg_score, low_score_count,
		       last_score, reputation, rank, last_analyzed_at, created_at, updated_at
		FROM domain_reputation
		WHERE domain = $1
	`

	err := r.db.GetContext(ctx, &rep, query, host)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("domain %s: %w", host, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get domain reputation: %w", err)
	}

	return &rep, nil
}

// Create inserts a new domain reputation row.
func (r *DomainReputationRepository) Create(ctx context.Context, rep *domain.DomainReputation) error {
	query := `
		INSERT INTO domain_reputation (
			domain, total_analyses, avg_score, low_score_count,
			last_score, reputation, rank, last_analyzed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rep.Domain,
		rep.TotalAnalyses,
		rep.AvgScore,
		rep.LowScoreCount,
		rep.LastScore,
		rep.Reputation,
		rep.Rank,
		rep.LastAnalyzedAt,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create domain reputation: %w", err)
	}

	return nil
}

// Update updates an existing domain reputation row.
func (r *DomainReputationRepository) Update(ctx context.Context, rep *domain.DomainReputation) error {
	query := `
		UPDATE domain_reputation
		SET total_analyses = $1, avg_score = $2, low_score_count = $3,
		    last_score = $4, reputation = $5, rank = $6, last_analyzed_at = $7,
		    updated_at = NOW()
		WHERE domain = $8
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rep.TotalAnalyses,
		rep.AvgScore,
		rep.LowScoreCount,
		rep.LastScore,
		rep.Reputation,
		rep.Rank,
		rep.LastAnalyzedAt,
		rep.Domain,
	).Scan(&rep.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("domain %s: %w", rep.Domain, ErrNotFound)
		}
		return fmt.Errorf("failed to update domain reputation: %w", err)
	}

	return nil
}

// GetOrCreate retrieves a host's reputation or creates a neutral row if it
// doesn't exist yet.
func (r *DomainReputationRepository) GetOrCreate(ctx context.Context, host string) (*domain.DomainReputation, error) {
	rep, err := r.GetByDomain(ctx, host)
	if err == nil {
		return rep, nil
	}

	newRep := &domain.DomainReputation{
		Domain: host,
		Rank:   domain.DomainRankQuestionable,
	}

	err = r.Create(ctx, newRep)
	if err != nil {
		// Handle potential race condition where another goroutine created it
		existing, getErr := r.GetByDomain(ctx, host)
		if getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create or get domain reputation: %w", err)
	}

	return newRep, nil
}

// Top retrieves the highest-reputation domains, most analyzed first within
// equal reputation.
func (r *DomainReputationRepository) Top(ctx context.Context, limit int) ([]*domain.DomainReputation, error) {
	if limit <= 0 {
		limit = defaultTopDomainsLimit
	}

	var reps []*domain.DomainReputation
	query := `
		SELECT id, domain, total_analyses, avg_score, low_score_count,
		       last_score, reputation, rank, last_analyzed_at, created_at, updated_at
		FROM domain_reputation
		ORDER BY reputation DESC, total_analyses DESC
		LIMIT $1
	`

	err := r.db.SelectContext(ctx, &reps, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top domains: %w", err)
	}

	return reps, nil
}
