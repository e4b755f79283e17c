package normalization

import (
	"context"
	"errors"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// NormalizeSession normalizes a session's raw events per symbol and
// persists the session and its snapshots.
// Steps:
//  1. Insert the session (already-ingested sessions are tolerated)
//  2. Per symbol: carry-forward normalize in log order
//  3. Per symbol: reconstruct the timeline
//  4. Persist snapshots per symbol
func (r *Runner) NormalizeSession(ctx context.Context, session *domain.SessionContext, events []*domain.RawEvent) (*Result, error) {
	if session == nil || session.RunID == "" {
		return nil, storage.ErrInvalidInput
	}

	err := r.sessionStore.Insert(ctx, session)
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	result := &Result{SnapshotsPerSymbol: make(map[string]int)}

	for _, symbol := range session.Symbols {
		snapshots := NormalizeSymbol(session.RunID, symbol, events)
		if len(snapshots) == 0 {
			result.SnapshotsPerSymbol[symbol] = 0
			continue
		}

		for _, s := range snapshots {
			if s.TimestampMs == domain.TimestampMissing {
				result.SynthesizedTimestamps++
			}
		}
		ReconstructTimeline(snapshots, session.RunStartTimestampMs, r.samplingPeriodMs)

		if err := r.snapshotStore.InsertBulk(ctx, snapshots); err != nil {
			return nil, fmt.Errorf("insert snapshots for %s: %w", symbol, err)
		}

		result.SnapshotsPerSymbol[symbol] = len(snapshots)
		result.Total += len(snapshots)
	}

	return result, nil
}
