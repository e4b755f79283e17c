package postgres

import (
	"context"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// TradeOutcomeStore implements storage.TradeOutcomeStore using PostgreSQL.
type TradeOutcomeStore struct {
	pool *Pool
}

// NewTradeOutcomeStore creates a new TradeOutcomeStore.
func NewTradeOutcomeStore(pool *Pool) *TradeOutcomeStore {
	return &TradeOutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeOutcomeStore = (*TradeOutcomeStore)(nil)

const outcomeInsertQuery = `
	INSERT INTO trade_outcomes (
		outcome_id, run_id, symbol,
		open_timestamp_ms, close_timestamp_ms, pnl, is_win
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Insert adds a new outcome. Returns ErrDuplicateKey if outcome_id exists.
func (s *TradeOutcomeStore) Insert(ctx context.Context, o *domain.TradeOutcome) error {
	if o == nil || o.OutcomeID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, outcomeInsertQuery,
		o.OutcomeID, o.RunID, o.Symbol,
		o.OpenTimestampMs, o.CloseTimestampMs, o.Pnl, o.IsWin,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade outcome: %w", err)
	}
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any
// duplicate.
func (s *TradeOutcomeStore) InsertBulk(ctx context.Context, outcomes []*domain.TradeOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, o := range outcomes {
		if o == nil || o.OutcomeID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, outcomeInsertQuery,
			o.OutcomeID, o.RunID, o.Symbol,
			o.OpenTimestampMs, o.CloseTimestampMs, o.Pnl, o.IsWin,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade outcome: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRunSymbol retrieves all outcomes for a run/symbol, ordered by
// close_timestamp_ms ASC.
func (s *TradeOutcomeStore) GetByRunSymbol(ctx context.Context, runID, symbol string) ([]*domain.TradeOutcome, error) {
	query := `
		SELECT outcome_id, run_id, symbol,
		       open_timestamp_ms, close_timestamp_ms, pnl, is_win
		FROM trade_outcomes
		WHERE run_id = $1 AND symbol = $2
		ORDER BY close_timestamp_ms ASC, outcome_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, symbol)
	if err != nil {
		return nil, fmt.Errorf("query trade outcomes: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeOutcome
	for rows.Next() {
		var o domain.TradeOutcome
		err := rows.Scan(
			&o.OutcomeID, &o.RunID, &o.Symbol,
			&o.OpenTimestampMs, &o.CloseTimestampMs, &o.Pnl, &o.IsWin,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade outcome: %w", err)
		}
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade outcomes: %w", err)
	}

	return result, nil
}
