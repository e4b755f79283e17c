package normalization

import (
	"context"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// NormalizationEngine defines the main normalization interface.
type NormalizationEngine interface {
	// NormalizeSession normalizes a session's raw events per symbol and
	// persists the session and its snapshots.
	NormalizeSession(ctx context.Context, session *domain.SessionContext, events []*domain.RawEvent) (*Result, error)
}

// Result summarizes one normalization run.
type Result struct {
	// SnapshotsPerSymbol counts persisted snapshots keyed by symbol.
	SnapshotsPerSymbol map[string]int
	// Total is the number of snapshots persisted across all symbols.
	Total int
	// SynthesizedTimestamps counts snapshots whose timestamp the
	// reconstructor had to fill in.
	SynthesizedTimestamps int
}

// Runner implements NormalizationEngine.
type Runner struct {
	sessionStore  storage.SessionStore
	snapshotStore storage.SnapshotStore

	samplingPeriodMs int64
}

// NewRunner creates a new normalization runner. samplingPeriodMs is the
// assumed snapshot interval for logs with no resolvable timestamps; zero
// selects the default.
func NewRunner(sessionStore storage.SessionStore, snapshotStore storage.SnapshotStore, samplingPeriodMs int64) *Runner {
	if samplingPeriodMs <= 0 {
		samplingPeriodMs = domain.DefaultSamplingPeriodMs
	}
	return &Runner{
		sessionStore:     sessionStore,
		snapshotStore:    snapshotStore,
		samplingPeriodMs: samplingPeriodMs,
	}
}

var _ NormalizationEngine = (*Runner)(nil)
