package memory

import (
	"context"
	"errors"
	"testing"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

func TestSnapshotStore_InsertBulkAndGet(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	snaps := []*domain.NormalizedSnapshot{
		{RunID: "run1", Symbol: "BTCUSDT", SequenceIndex: 1, TimestampMs: 2000, MarkPrice: 50100},
		{RunID: "run1", Symbol: "BTCUSDT", SequenceIndex: 0, TimestampMs: 1000, MarkPrice: 50000},
		{RunID: "run1", Symbol: "ETHUSDT", SequenceIndex: 0, TimestampMs: 1500, MarkPrice: 3000},
	}

	if err := store.InsertBulk(ctx, snaps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByRunSymbol(ctx, "run1", "BTCUSDT")
	if err != nil {
		t.Fatalf("GetByRunSymbol failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(result))
	}

	// Ordered by sequence_index ASC
	if result[0].SequenceIndex != 0 || result[1].SequenceIndex != 1 {
		t.Errorf("Expected sequence order [0, 1], got [%d, %d]",
			result[0].SequenceIndex, result[1].SequenceIndex)
	}
}

func TestSnapshotStore_DuplicateKey(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	snap := &domain.NormalizedSnapshot{RunID: "run1", Symbol: "BTCUSDT", SequenceIndex: 0, TimestampMs: 1000}

	if err := store.InsertBulk(ctx, []*domain.NormalizedSnapshot{snap}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.NormalizedSnapshot{snap})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestSnapshotStore_TimeRange(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	snaps := []*domain.NormalizedSnapshot{
		{RunID: "run1", Symbol: "BTCUSDT", SequenceIndex: 0, TimestampMs: 1000},
		{RunID: "run1", Symbol: "BTCUSDT", SequenceIndex: 1, TimestampMs: 2000},
		{RunID: "run1", Symbol: "BTCUSDT", SequenceIndex: 2, TimestampMs: 3000},
	}
	if err := store.InsertBulk(ctx, snaps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTimeRange(ctx, "run1", "BTCUSDT", 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("Expected 2 snapshots in [1000, 2000], got %d", len(result))
	}
}
