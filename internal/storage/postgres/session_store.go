package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// SessionStore implements storage.SessionStore using PostgreSQL.
type SessionStore struct {
	pool *Pool
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SessionStore = (*SessionStore)(nil)

// Insert adds a new session. Returns ErrDuplicateKey if run_id exists.
func (s *SessionStore) Insert(ctx context.Context, sc *domain.SessionContext) error {
	if sc == nil || sc.RunID == "" {
		return storage.ErrInvalidInput
	}

	configJSON, err := json.Marshal(sc.Config)
	if err != nil {
		return fmt.Errorf("marshal session config: %w", err)
	}

	query := `
		INSERT INTO sessions (run_id, run_start_timestamp_ms, symbols, config)
		VALUES ($1, $2, $3, $4)
	`

	_, err = s.pool.Exec(ctx, query, sc.RunID, sc.RunStartTimestampMs, sc.Symbols, configJSON)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByRunID retrieves a session by run id. Returns ErrNotFound if not exists.
func (s *SessionStore) GetByRunID(ctx context.Context, runID string) (*domain.SessionContext, error) {
	query := `
		SELECT run_id, run_start_timestamp_ms, symbols, config
		FROM sessions
		WHERE run_id = $1
	`

	var (
		sc         domain.SessionContext
		configJSON []byte
	)
	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&sc.RunID, &sc.RunStartTimestampMs, &sc.Symbols, &configJSON,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get session by run id: %w", err)
	}

	if err := json.Unmarshal(configJSON, &sc.Config); err != nil {
		return nil, fmt.Errorf("unmarshal session config: %w", err)
	}
	return &sc, nil
}

// GetAll retrieves all sessions, ordered by run_start_timestamp_ms ASC.
func (s *SessionStore) GetAll(ctx context.Context) ([]*domain.SessionContext, error) {
	query := `
		SELECT run_id, run_start_timestamp_ms, symbols, config
		FROM sessions
		ORDER BY run_start_timestamp_ms ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var result []*domain.SessionContext
	for rows.Next() {
		var (
			sc         domain.SessionContext
			configJSON []byte
		)
		if err := rows.Scan(&sc.RunID, &sc.RunStartTimestampMs, &sc.Symbols, &configJSON); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal(configJSON, &sc.Config); err != nil {
			return nil, fmt.Errorf("unmarshal session config: %w", err)
		}
		result = append(result, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return result, nil
}
