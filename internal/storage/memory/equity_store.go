package memory

import (
	"context"
	"sort"
	"sync"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// equityKey uniquely identifies an equity point row.
type equityKey struct {
	runID       string
	symbol      string
	timestampMs int64
}

// EquityPointStore is an in-memory implementation of storage.EquityPointStore.
type EquityPointStore struct {
	mu   sync.RWMutex
	data map[equityKey]*domain.EquityPoint
}

// NewEquityPointStore creates a new in-memory equity point store.
func NewEquityPointStore() *EquityPointStore {
	return &EquityPointStore{
		data: make(map[equityKey]*domain.EquityPoint),
	}
}

// Compile-time interface check.
var _ storage.EquityPointStore = (*EquityPointStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (run_id, symbol, timestamp_ms).
func (s *EquityPointStore) InsertBulk(_ context.Context, points []*domain.EquityPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[equityKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.RunID == "" || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := equityKey{p.RunID, p.Symbol, p.TimestampMs}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, p := range points {
		cp := *p
		s.data[equityKey{p.RunID, p.Symbol, p.TimestampMs}] = &cp
	}

	return nil
}

// GetByRunSymbol retrieves all points for a run/symbol, ordered by
// timestamp ASC.
func (s *EquityPointStore) GetByRunSymbol(_ context.Context, runID, symbol string) ([]*domain.EquityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityPoint
	for _, p := range s.data {
		if p.RunID == runID && p.Symbol == symbol {
			cp := *p
			result = append(result, &cp)
		}
	}

	sortEquityPoints(result)
	return result, nil
}

// GetByTimeRange retrieves points for a run/symbol within [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *EquityPointStore) GetByTimeRange(_ context.Context, runID, symbol string, start, end int64) ([]*domain.EquityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityPoint
	for _, p := range s.data {
		if p.RunID == runID && p.Symbol == symbol &&
			p.TimestampMs >= start && p.TimestampMs <= end {
			cp := *p
			result = append(result, &cp)
		}
	}

	sortEquityPoints(result)
	return result, nil
}

func sortEquityPoints(points []*domain.EquityPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].TimestampMs < points[j].TimestampMs
	})
}
