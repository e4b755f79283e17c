package memory

import (
	"context"
	"sort"
	"sync"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// TradeOutcomeStore is an in-memory implementation of storage.TradeOutcomeStore.
type TradeOutcomeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeOutcome // keyed by outcome_id
}

// NewTradeOutcomeStore creates a new in-memory trade outcome store.
func NewTradeOutcomeStore() *TradeOutcomeStore {
	return &TradeOutcomeStore{
		data: make(map[string]*domain.TradeOutcome),
	}
}

// Compile-time interface check.
var _ storage.TradeOutcomeStore = (*TradeOutcomeStore)(nil)

// Insert adds a new outcome. Returns ErrDuplicateKey if outcome_id exists.
func (s *TradeOutcomeStore) Insert(_ context.Context, o *domain.TradeOutcome) error {
	if o == nil || o.OutcomeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[o.OutcomeID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *o
	s.data[o.OutcomeID] = &cp
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any
// duplicate.
func (s *TradeOutcomeStore) InsertBulk(_ context.Context, outcomes []*domain.TradeOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(outcomes))
	for _, o := range outcomes {
		if o == nil || o.OutcomeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[o.OutcomeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[o.OutcomeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[o.OutcomeID] = struct{}{}
	}

	for _, o := range outcomes {
		cp := *o
		s.data[o.OutcomeID] = &cp
	}

	return nil
}

// GetByRunSymbol retrieves all outcomes for a run/symbol, ordered by
// close_timestamp_ms ASC.
func (s *TradeOutcomeStore) GetByRunSymbol(_ context.Context, runID, symbol string) ([]*domain.TradeOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeOutcome
	for _, o := range s.data {
		if o.RunID == runID && o.Symbol == symbol {
			cp := *o
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CloseTimestampMs != result[j].CloseTimestampMs {
			return result[i].CloseTimestampMs < result[j].CloseTimestampMs
		}
		return result[i].OutcomeID < result[j].OutcomeID
	})

	return result, nil
}
