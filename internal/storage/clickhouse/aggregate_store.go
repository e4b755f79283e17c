package clickhouse

import (
	"context"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// PerformanceAggregateStore implements storage.PerformanceAggregateStore
// using ClickHouse.
type PerformanceAggregateStore struct {
	conn *Conn
}

// NewPerformanceAggregateStore creates a new PerformanceAggregateStore.
func NewPerformanceAggregateStore(conn *Conn) *PerformanceAggregateStore {
	return &PerformanceAggregateStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PerformanceAggregateStore = (*PerformanceAggregateStore)(nil)

// Insert adds a computed summary. Returns ErrDuplicateKey if (run_id, symbol)
// exists.
func (s *PerformanceAggregateStore) Insert(ctx context.Context, sum *domain.PerformanceSummary) error {
	if sum == nil || sum.RunID == "" || sum.Symbol == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, sum.RunID, sum.Symbol)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO performance_aggregates (
			run_id, symbol, samples, wins, losses,
			win_rate, avg_outcome, avg_win, avg_loss, profit_factor,
			synthetic_baseline, skipped_records
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var syntheticBaseline uint8
	if sum.SyntheticBaseline {
		syntheticBaseline = 1
	}

	err = s.conn.Exec(ctx, query,
		sum.RunID, sum.Symbol,
		uint32(sum.Samples), uint32(sum.Wins), uint32(sum.Losses),
		sum.WinRate, sum.AvgOutcome, sum.AvgWin, sum.AvgLoss, sum.ProfitFactor,
		syntheticBaseline, uint32(sum.SkippedRecords),
	)
	if err != nil {
		return fmt.Errorf("insert performance aggregate: %w", err)
	}
	return nil
}

const aggregateSelectColumns = `
	run_id, symbol, samples, wins, losses,
	win_rate, avg_outcome, avg_win, avg_loss, profit_factor,
	synthetic_baseline, skipped_records
`

// GetByRunID retrieves all summaries for a run, ordered by symbol ASC.
func (s *PerformanceAggregateStore) GetByRunID(ctx context.Context, runID string) ([]*domain.PerformanceSummary, error) {
	query := `
		SELECT ` + aggregateSelectColumns + `
		FROM performance_aggregates
		WHERE run_id = ?
		ORDER BY symbol ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanPerformanceSummaries(rows)
}

// GetAll retrieves all summaries, ordered by (run_id, symbol) ASC.
func (s *PerformanceAggregateStore) GetAll(ctx context.Context) ([]*domain.PerformanceSummary, error) {
	query := `
		SELECT ` + aggregateSelectColumns + `
		FROM performance_aggregates
		ORDER BY run_id ASC, symbol ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	return scanPerformanceSummaries(rows)
}

// exists checks if a summary with the given key exists.
func (s *PerformanceAggregateStore) exists(ctx context.Context, runID, symbol string) (bool, error) {
	query := `
		SELECT count(*) FROM performance_aggregates
		WHERE run_id = ? AND symbol = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, symbol).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPerformanceSummaries scans multiple rows.
func scanPerformanceSummaries(rows chRows) ([]*domain.PerformanceSummary, error) {
	var summaries []*domain.PerformanceSummary

	for rows.Next() {
		var sum domain.PerformanceSummary
		var samples, wins, losses, skippedRecords uint32
		var syntheticBaseline uint8

		err := rows.Scan(
			&sum.RunID, &sum.Symbol, &samples, &wins, &losses,
			&sum.WinRate, &sum.AvgOutcome, &sum.AvgWin, &sum.AvgLoss, &sum.ProfitFactor,
			&syntheticBaseline, &skippedRecords,
		)
		if err != nil {
			return nil, fmt.Errorf("scan performance aggregate row: %w", err)
		}

		sum.Samples = int(samples)
		sum.Wins = int(wins)
		sum.Losses = int(losses)
		sum.SkippedRecords = int(skippedRecords)
		sum.SyntheticBaseline = syntheticBaseline != 0
		summaries = append(summaries, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance aggregate rows: %w", err)
	}

	return summaries, nil
}
