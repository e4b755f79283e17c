package memory

import (
	"context"
	"sort"
	"sync"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// snapshotKey uniquely identifies a snapshot row.
type snapshotKey struct {
	runID         string
	symbol        string
	sequenceIndex int
}

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[snapshotKey]*domain.NormalizedSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[snapshotKey]*domain.NormalizedSnapshot),
	}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any
// duplicate (run_id, symbol, sequence_index).
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.NormalizedSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[snapshotKey]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" || snap.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := snapshotKey{snap.RunID, snap.Symbol, snap.SequenceIndex}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, snap := range snapshots {
		cp := *snap
		s.data[snapshotKey{snap.RunID, snap.Symbol, snap.SequenceIndex}] = &cp
	}

	return nil
}

// GetByRunSymbol retrieves all snapshots for a run/symbol, ordered by
// sequence_index ASC.
func (s *SnapshotStore) GetByRunSymbol(_ context.Context, runID, symbol string) ([]*domain.NormalizedSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NormalizedSnapshot
	for _, snap := range s.data {
		if snap.RunID == runID && snap.Symbol == symbol {
			cp := *snap
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SequenceIndex < result[j].SequenceIndex
	})

	return result, nil
}

// GetByTimeRange retrieves snapshots for a run/symbol within [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *SnapshotStore) GetByTimeRange(_ context.Context, runID, symbol string, start, end int64) ([]*domain.NormalizedSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NormalizedSnapshot
	for _, snap := range s.data {
		if snap.RunID == runID && snap.Symbol == symbol &&
			snap.TimestampMs >= start && snap.TimestampMs <= end {
			cp := *snap
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].SequenceIndex < result[j].SequenceIndex
	})

	return result, nil
}
