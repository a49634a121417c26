// Package testhelpers provides shared test utilities for the analyzer service.
package testhelpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/analyzer/internal/database"
	"github.com/jonesrussell/analyzer/internal/domain"
)

// MemoryReputationStore implements the domain reputation store interfaces
// in memory for testing.
type MemoryReputationStore struct {
	mu      sync.RWMutex
	nextID  int
	domains map[string]*domain.DomainReputation
}

// NewMemoryReputationStore creates a new in-memory reputation store.
func NewMemoryReputationStore() *MemoryReputationStore {
	return &MemoryReputationStore{
		domains: make(map[string]*domain.DomainReputation),
	}
}

// GetByDomain retrieves reputation for a host.
func (m *MemoryReputationStore) GetByDomain(_ context.Context, host string) (*domain.DomainReputation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rep, ok := m.domains[host]; ok {
		copied := *rep
		return &copied, nil
	}
	return nil, fmt.Errorf("domain %s: %w", host, database.ErrNotFound)
}

// GetOrCreate retrieves a host's reputation or creates a neutral row.
func (m *MemoryReputationStore) GetOrCreate(_ context.Context, host string) (*domain.DomainReputation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rep, ok := m.domains[host]; ok {
		copied := *rep
		return &copied, nil
	}
	m.nextID++
	rep := &domain.DomainReputation{
		ID:     m.nextID,
		Domain: host,
		Rank:   domain.DomainRankQuestionable,
	}
	m.domains[host] = rep
	copied := *rep
	return &copied, nil
}

// Update stores the given reputation row.
func (m *MemoryReputationStore) Update(_ context.Context, rep *domain.DomainReputation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.domains[rep.Domain]; !ok {
		return fmt.Errorf("domain %s: %w", rep.Domain, database.ErrNotFound)
	}
	copied := *rep
	m.domains[rep.Domain] = &copied
	return nil
}

// Set stores a reputation row directly (for test setup).
func (m *MemoryReputationStore) Set(rep *domain.DomainReputation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *rep
	m.domains[rep.Domain] = &copied
}

// Len returns the number of stored domains.
func (m *MemoryReputationStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.domains)
}

// MemoryHistoryStore implements the analysis history store in memory for
// testing.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	records []*domain.AnalysisRecord

	// InsertErr, when set, is returned by every Insert call.
	InsertErr error
}

// NewMemoryHistoryStore creates a new in-memory history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// Insert appends an analysis record.
func (m *MemoryHistoryStore) Insert(_ context.Context, record *domain.AnalysisRecord) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

// Records returns a snapshot of the stored records.
func (m *MemoryHistoryStore) Records() []*domain.AnalysisRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AnalysisRecord, len(m.records))
	copy(out, m.records)
	return out
}

// MemoryArchive records archived results in memory for testing.
type MemoryArchive struct {
	mu      sync.RWMutex
	results map[string]*domain.AnalysisResult

	// ArchiveErr, when set, is returned by every ArchiveResult call.
	ArchiveErr error
}

// NewMemoryArchive creates a new in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{results: make(map[string]*domain.AnalysisResult)}
}

// ArchiveResult stores one result under the given ID.
func (m *MemoryArchive) ArchiveResult(_ context.Context, id string, result *domain.AnalysisResult) error {
	if m.ArchiveErr != nil {
		return m.ArchiveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[id] = result
	return nil
}

// Len returns the number of archived results.
func (m *MemoryArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}
