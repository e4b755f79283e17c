package clickhouse

import (
	"context"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// EquityPointStore implements storage.EquityPointStore using ClickHouse.
type EquityPointStore struct {
	conn *Conn
}

// NewEquityPointStore creates a new EquityPointStore.
func NewEquityPointStore(conn *Conn) *EquityPointStore {
	return &EquityPointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityPointStore = (*EquityPointStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (run_id, symbol, timestamp_ms).
func (s *EquityPointStore) InsertBulk(ctx context.Context, points []*domain.EquityPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID       string
		symbol      string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.RunID, p.Symbol, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness; check existing rows explicitly.
	for _, p := range points {
		exists, err := s.exists(ctx, p.RunID, p.Symbol, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_timeseries (
			run_id, symbol, timestamp_ms, equity, peak_equity, drawdown_pct
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.RunID, p.Symbol, uint64(p.TimestampMs),
			p.Equity, p.PeakEquity, p.DrawdownPct,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunSymbol retrieves all points for a run/symbol, ordered by timestamp ASC.
func (s *EquityPointStore) GetByRunSymbol(ctx context.Context, runID, symbol string) ([]*domain.EquityPoint, error) {
	query := `
		SELECT run_id, symbol, timestamp_ms, equity, peak_equity, drawdown_pct
		FROM equity_timeseries
		WHERE run_id = ? AND symbol = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by run/symbol: %w", err)
	}
	defer rows.Close()

	return scanEquityPoints(rows)
}

// GetByTimeRange retrieves points for a run/symbol within [start, end] (inclusive).
func (s *EquityPointStore) GetByTimeRange(ctx context.Context, runID, symbol string, start, end int64) ([]*domain.EquityPoint, error) {
	query := `
		SELECT run_id, symbol, timestamp_ms, equity, peak_equity, drawdown_pct
		FROM equity_timeseries
		WHERE run_id = ? AND symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, symbol, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanEquityPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *EquityPointStore) exists(ctx context.Context, runID, symbol string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM equity_timeseries
		WHERE run_id = ? AND symbol = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, symbol, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanEquityPoints scans multiple rows.
func scanEquityPoints(rows chRows) ([]*domain.EquityPoint, error) {
	var points []*domain.EquityPoint

	for rows.Next() {
		var p domain.EquityPoint
		var timestampMs uint64

		err := rows.Scan(
			&p.RunID, &p.Symbol, &timestampMs,
			&p.Equity, &p.PeakEquity, &p.DrawdownPct,
		)
		if err != nil {
			return nil, fmt.Errorf("scan equity point row: %w", err)
		}

		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity point rows: %w", err)
	}

	return points, nil
}
