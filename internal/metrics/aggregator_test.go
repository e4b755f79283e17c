package metrics

import (
	"context"
	"errors"
	"testing"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage/memory"
)

func newTestAggregator() (*Aggregator, *memory.SnapshotStore, *memory.TradeOutcomeStore, *memory.EquityPointStore, *memory.PerformanceAggregateStore) {
	snapshotStore := memory.NewSnapshotStore()
	outcomeStore := memory.NewTradeOutcomeStore()
	equityStore := memory.NewEquityPointStore()
	aggregateStore := memory.NewPerformanceAggregateStore()
	agg := NewAggregator(snapshotStore, outcomeStore, equityStore, aggregateStore, 0)
	return agg, snapshotStore, outcomeStore, equityStore, aggregateStore
}

func TestAggregator_ComputeAndStore(t *testing.T) {
	ctx := context.Background()
	agg, snapshotStore, outcomeStore, equityStore, aggregateStore := newTestAggregator()

	snapshots := []*domain.NormalizedSnapshot{
		snap(0, 1000, 1000, 0, 0, 0, 0, true),
		snap(1, 2000, 1000, 0, 0, 0, 0, true),
		snap(2, 3000, 1050, 0, 50, 0, 0, true),
	}
	if err := snapshotStore.InsertBulk(ctx, snapshots); err != nil {
		t.Fatalf("seed snapshots: %v", err)
	}

	result, err := agg.ComputeAndStore(ctx, "run-1", "BTCUSDT", 0)
	if err != nil {
		t.Fatalf("ComputeAndStore failed: %v", err)
	}

	if len(result.EquityPoints) != 3 {
		t.Errorf("Expected 3 equity points, got %d", len(result.EquityPoints))
	}
	if len(result.Outcomes) != 1 {
		t.Errorf("Expected 1 outcome, got %d", len(result.Outcomes))
	}
	if result.Summary.Wins != 1 {
		t.Errorf("Expected 1 win, got %d", result.Summary.Wins)
	}

	storedEquity, err := equityStore.GetByRunSymbol(ctx, "run-1", "BTCUSDT")
	if err != nil || len(storedEquity) != 3 {
		t.Errorf("Expected 3 stored equity points, got %d (err %v)", len(storedEquity), err)
	}
	storedOutcomes, err := outcomeStore.GetByRunSymbol(ctx, "run-1", "BTCUSDT")
	if err != nil || len(storedOutcomes) != 1 {
		t.Errorf("Expected 1 stored outcome, got %d (err %v)", len(storedOutcomes), err)
	}
	storedSummaries, err := aggregateStore.GetByRunID(ctx, "run-1")
	if err != nil || len(storedSummaries) != 1 {
		t.Errorf("Expected 1 stored summary, got %d (err %v)", len(storedSummaries), err)
	}
}

func TestAggregator_ComputeNoSnapshots(t *testing.T) {
	agg, _, _, _, _ := newTestAggregator()

	_, err := agg.Compute(context.Background(), "run-1", "NOPE", 0)
	if !errors.Is(err, ErrNoSnapshots) {
		t.Fatalf("Expected ErrNoSnapshots, got %v", err)
	}
}

func TestAggregator_ComputeDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	agg, snapshotStore, outcomeStore, _, _ := newTestAggregator()

	snapshots := []*domain.NormalizedSnapshot{
		snap(0, 1000, 1000, 0, 0, 0, 0, true),
		snap(1, 2000, 1000, 0, 25, 0, 0, true),
	}
	if err := snapshotStore.InsertBulk(ctx, snapshots); err != nil {
		t.Fatalf("seed snapshots: %v", err)
	}

	if _, err := agg.Compute(ctx, "run-1", "BTCUSDT", 0); err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	stored, err := outcomeStore.GetByRunSymbol(ctx, "run-1", "BTCUSDT")
	if err != nil {
		t.Fatalf("GetByRunSymbol failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("Expected no persisted outcomes after Compute, got %d", len(stored))
	}
}
