package metrics

import (
	"context"
	"errors"
	"fmt"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// ErrNoSnapshots is returned when a symbol has no usable snapshots. Callers
// degrade this to an "insufficient data" report section, never a fatal
// error for the whole run.
var ErrNoSnapshots = errors.New("no snapshots available for aggregation")

// Aggregator computes and persists per-symbol performance metrics from
// stored snapshots.
type Aggregator struct {
	snapshotStore  storage.SnapshotStore
	outcomeStore   storage.TradeOutcomeStore
	equityStore    storage.EquityPointStore
	aggregateStore storage.PerformanceAggregateStore

	epsilon float64
}

// NewAggregator creates a new metrics aggregator. epsilon is the minimum
// realizedPnl delta treated as a closed trade; zero selects the default.
func NewAggregator(
	snapshotStore storage.SnapshotStore,
	outcomeStore storage.TradeOutcomeStore,
	equityStore storage.EquityPointStore,
	aggregateStore storage.PerformanceAggregateStore,
	epsilon float64,
) *Aggregator {
	if epsilon <= 0 {
		epsilon = domain.DefaultPnlEpsilon
	}
	return &Aggregator{
		snapshotStore:  snapshotStore,
		outcomeStore:   outcomeStore,
		equityStore:    equityStore,
		aggregateStore: aggregateStore,
		epsilon:        epsilon,
	}
}

// SymbolMetrics bundles everything derived for one run/symbol.
type SymbolMetrics struct {
	EquityPoints []*domain.EquityPoint
	Outcomes     []*domain.TradeOutcome
	Summary      *domain.PerformanceSummary
}

// Compute derives equity curve, outcomes and summary for one run/symbol
// from stored snapshots without persisting anything. Returns ErrNoSnapshots
// when the symbol has no snapshots.
func (a *Aggregator) Compute(ctx context.Context, runID, symbol string, skippedRecords int) (*SymbolMetrics, error) {
	snapshots, err := a.snapshotStore.GetByRunSymbol(ctx, runID, symbol)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, ErrNoSnapshots
	}

	equityPoints, synthetic := BuildEquityCurve(snapshots)
	outcomes := DetectOutcomes(snapshots, a.epsilon)
	summary := ComputeSummary(runID, symbol, outcomes, synthetic, skippedRecords)

	return &SymbolMetrics{
		EquityPoints: equityPoints,
		Outcomes:     outcomes,
		Summary:      summary,
	}, nil
}

// ComputeAndStore derives metrics for one run/symbol and persists the
// equity curve, outcomes and summary. Re-running over already-persisted
// data is tolerated; outcome ids are deterministic so duplicates are the
// same rows.
func (a *Aggregator) ComputeAndStore(ctx context.Context, runID, symbol string, skippedRecords int) (*SymbolMetrics, error) {
	metrics, err := a.Compute(ctx, runID, symbol, skippedRecords)
	if err != nil {
		return nil, err
	}

	if err := a.equityStore.InsertBulk(ctx, metrics.EquityPoints); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("store equity points: %w", err)
	}
	if err := a.outcomeStore.InsertBulk(ctx, metrics.Outcomes); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("store outcomes: %w", err)
	}
	if err := a.aggregateStore.Insert(ctx, metrics.Summary); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("store summary: %w", err)
	}

	return metrics, nil
}
