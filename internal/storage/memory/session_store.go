package memory

import (
	"context"
	"sort"
	"sync"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SessionContext // keyed by run_id
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]*domain.SessionContext),
	}
}

// Compile-time interface check.
var _ storage.SessionStore = (*SessionStore)(nil)

// Insert adds a new session. Returns ErrDuplicateKey if run_id exists.
func (s *SessionStore) Insert(_ context.Context, sc *domain.SessionContext) error {
	if sc == nil || sc.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sc.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[sc.RunID] = copySession(sc)
	return nil
}

// GetByRunID retrieves a session by run id. Returns ErrNotFound if not exists.
func (s *SessionStore) GetByRunID(_ context.Context, runID string) (*domain.SessionContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copySession(sc), nil
}

// GetAll retrieves all sessions, ordered by run_start_timestamp_ms ASC.
func (s *SessionStore) GetAll(_ context.Context) ([]*domain.SessionContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SessionContext, 0, len(s.data))
	for _, sc := range s.data {
		result = append(result, copySession(sc))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RunStartTimestampMs != result[j].RunStartTimestampMs {
			return result[i].RunStartTimestampMs < result[j].RunStartTimestampMs
		}
		return result[i].RunID < result[j].RunID
	})

	return result, nil
}

// copySession deep-copies a session so callers cannot mutate stored state.
func copySession(sc *domain.SessionContext) *domain.SessionContext {
	out := &domain.SessionContext{
		RunID:               sc.RunID,
		RunStartTimestampMs: sc.RunStartTimestampMs,
		Symbols:             append([]string(nil), sc.Symbols...),
	}
	if sc.Config != nil {
		out.Config = make(map[string]string, len(sc.Config))
		for k, v := range sc.Config {
			out.Config[k] = v
		}
	}
	return out
}
