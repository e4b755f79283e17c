package postgres

import (
	"context"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	run_id, symbol, sequence_index, timestamp_ms,
	mark_price, wallet_balance, unrealized_pnl, realized_pnl,
	fee_paid, funding_pnl, position_qty, wallet_balance_seen
`

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any
// duplicate (run_id, symbol, sequence_index).
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.NormalizedSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" || snap.Symbol == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			snap.RunID, snap.Symbol, snap.SequenceIndex, snap.TimestampMs,
			snap.MarkPrice, snap.WalletBalance, snap.UnrealizedPnl, snap.RealizedPnl,
			snap.FeePaid, snap.FundingPnl, snap.PositionQty, snap.WalletBalanceSeen,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRunSymbol retrieves all snapshots for a run/symbol, ordered by
// sequence_index ASC.
func (s *SnapshotStore) GetByRunSymbol(ctx context.Context, runID, symbol string) ([]*domain.NormalizedSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE run_id = $1 AND symbol = $2
		ORDER BY sequence_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, symbol)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by run/symbol: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetByTimeRange retrieves snapshots for a run/symbol within [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *SnapshotStore) GetByTimeRange(ctx context.Context, runID, symbol string, start, end int64) ([]*domain.NormalizedSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE run_id = $1 AND symbol = $2 AND timestamp_ms >= $3 AND timestamp_ms <= $4
		ORDER BY timestamp_ms ASC, sequence_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by time range: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// scanSnapshots scans multiple snapshot rows.
func scanSnapshots(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*domain.NormalizedSnapshot, error) {
	var result []*domain.NormalizedSnapshot
	for rows.Next() {
		var snap domain.NormalizedSnapshot
		err := rows.Scan(
			&snap.RunID, &snap.Symbol, &snap.SequenceIndex, &snap.TimestampMs,
			&snap.MarkPrice, &snap.WalletBalance, &snap.UnrealizedPnl, &snap.RealizedPnl,
			&snap.FeePaid, &snap.FundingPnl, &snap.PositionQty, &snap.WalletBalanceSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		result = append(result, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return result, nil
}
