package memory

import (
	"context"
	"sort"
	"sync"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// aggregateKey uniquely identifies a performance aggregate row.
type aggregateKey struct {
	runID  string
	symbol string
}

// PerformanceAggregateStore is an in-memory implementation of
// storage.PerformanceAggregateStore.
type PerformanceAggregateStore struct {
	mu   sync.RWMutex
	data map[aggregateKey]*domain.PerformanceSummary
}

// NewPerformanceAggregateStore creates a new in-memory aggregate store.
func NewPerformanceAggregateStore() *PerformanceAggregateStore {
	return &PerformanceAggregateStore{
		data: make(map[aggregateKey]*domain.PerformanceSummary),
	}
}

// Compile-time interface check.
var _ storage.PerformanceAggregateStore = (*PerformanceAggregateStore)(nil)

// Insert adds a computed summary. Returns ErrDuplicateKey if
// (run_id, symbol) exists.
func (s *PerformanceAggregateStore) Insert(_ context.Context, sum *domain.PerformanceSummary) error {
	if sum == nil || sum.RunID == "" || sum.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := aggregateKey{sum.RunID, sum.Symbol}
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *sum
	s.data[k] = &cp
	return nil
}

// GetByRunID retrieves all summaries for a run, ordered by symbol ASC.
func (s *PerformanceAggregateStore) GetByRunID(_ context.Context, runID string) ([]*domain.PerformanceSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PerformanceSummary
	for _, sum := range s.data {
		if sum.RunID == runID {
			cp := *sum
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result, nil
}

// GetAll retrieves all summaries, ordered by (run_id, symbol) ASC.
func (s *PerformanceAggregateStore) GetAll(_ context.Context) ([]*domain.PerformanceSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PerformanceSummary, 0, len(s.data))
	for _, sum := range s.data {
		cp := *sum
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RunID != result[j].RunID {
			return result[i].RunID < result[j].RunID
		}
		return result[i].Symbol < result[j].Symbol
	})

	return result, nil
}
