package storage

import (
	"context"

	"session-report-lab/internal/domain"
)

// SessionStore provides access to sessions storage.
type SessionStore interface {
	// Insert adds a new session. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, s *domain.SessionContext) error

	// GetByRunID retrieves a session by run id. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.SessionContext, error)

	// GetAll retrieves all sessions, ordered by run_start_timestamp_ms ASC.
	GetAll(ctx context.Context) ([]*domain.SessionContext, error)
}

// SnapshotStore provides access to normalized snapshot storage.
type SnapshotStore interface {
	// InsertBulk adds multiple snapshots atomically. Fails entire batch on
	// any duplicate (run_id, symbol, sequence_index).
	InsertBulk(ctx context.Context, snapshots []*domain.NormalizedSnapshot) error

	// GetByRunSymbol retrieves all snapshots for a run/symbol, ordered by
	// sequence_index ASC.
	GetByRunSymbol(ctx context.Context, runID, symbol string) ([]*domain.NormalizedSnapshot, error)

	// GetByTimeRange retrieves snapshots for a run/symbol within
	// [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, runID, symbol string, start, end int64) ([]*domain.NormalizedSnapshot, error)
}

// TradeOutcomeStore provides access to trade_outcomes storage.
type TradeOutcomeStore interface {
	// Insert adds a new outcome. Returns ErrDuplicateKey if outcome_id exists.
	Insert(ctx context.Context, o *domain.TradeOutcome) error

	// InsertBulk adds multiple outcomes atomically. Fails entire batch on
	// any duplicate.
	InsertBulk(ctx context.Context, outcomes []*domain.TradeOutcome) error

	// GetByRunSymbol retrieves all outcomes for a run/symbol, ordered by
	// close_timestamp_ms ASC.
	GetByRunSymbol(ctx context.Context, runID, symbol string) ([]*domain.TradeOutcome, error)
}

// EquityPointStore provides access to equity_timeseries storage.
type EquityPointStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (run_id, symbol, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.EquityPoint) error

	// GetByRunSymbol retrieves all points for a run/symbol, ordered by
	// timestamp ASC.
	GetByRunSymbol(ctx context.Context, runID, symbol string) ([]*domain.EquityPoint, error)

	// GetByTimeRange retrieves points for a run/symbol within [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, runID, symbol string, start, end int64) ([]*domain.EquityPoint, error)
}

// PerformanceAggregateStore provides access to performance_aggregates storage.
type PerformanceAggregateStore interface {
	// Insert adds a computed summary. Returns ErrDuplicateKey if
	// (run_id, symbol) exists.
	Insert(ctx context.Context, s *domain.PerformanceSummary) error

	// GetByRunID retrieves all summaries for a run, ordered by symbol ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.PerformanceSummary, error)

	// GetAll retrieves all summaries, ordered by (run_id, symbol) ASC.
	GetAll(ctx context.Context) ([]*domain.PerformanceSummary, error)
}
