package normalization

import (
	"testing"

	"session-report-lab/internal/domain"
)

func snapshotEvent(symbol string, ts int64, fields map[string]float64) *domain.RawEvent {
	return &domain.RawEvent{
		Kind:        domain.KindSnapshot,
		Symbol:      symbol,
		TimestampMs: ts,
		Fields:      fields,
	}
}

func TestNormalizeSymbol_CarryForward(t *testing.T) {
	events := []*domain.RawEvent{
		snapshotEvent("BTCUSDT", 1000, map[string]float64{
			domain.FieldMarkPrice:     50000,
			domain.FieldWalletBalance: 1000,
		}),
		// markPrice absent: carries forward 50000
		snapshotEvent("BTCUSDT", 2000, map[string]float64{
			domain.FieldWalletBalance: 1010,
			domain.FieldRealizedPnl:   10,
		}),
		// everything absent: carries all prior values
		snapshotEvent("BTCUSDT", 3000, map[string]float64{}),
	}

	snapshots := NormalizeSymbol("run-1", "BTCUSDT", events)

	if len(snapshots) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(snapshots))
	}

	if snapshots[1].MarkPrice != 50000 {
		t.Errorf("Expected carried markPrice 50000, got %v", snapshots[1].MarkPrice)
	}
	if snapshots[2].WalletBalance != 1010 {
		t.Errorf("Expected carried walletBalance 1010, got %v", snapshots[2].WalletBalance)
	}
	if snapshots[2].RealizedPnl != 10 {
		t.Errorf("Expected carried realizedPnl 10, got %v", snapshots[2].RealizedPnl)
	}
}

func TestNormalizeSymbol_FirstOccurrenceDefaultsToZero(t *testing.T) {
	events := []*domain.RawEvent{
		snapshotEvent("BTCUSDT", 1000, map[string]float64{domain.FieldMarkPrice: 100}),
	}

	snapshots := NormalizeSymbol("run-1", "BTCUSDT", events)

	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(snapshots))
	}
	s := snapshots[0]
	if s.WalletBalance != 0 || s.UnrealizedPnl != 0 || s.RealizedPnl != 0 ||
		s.FeePaid != 0 || s.FundingPnl != 0 || s.PositionQty != 0 {
		t.Errorf("Expected zero defaults for absent fields, got %+v", s)
	}
}

func TestNormalizeSymbol_FiltersOtherKindsAndSymbols(t *testing.T) {
	events := []*domain.RawEvent{
		snapshotEvent("BTCUSDT", 1000, map[string]float64{}),
		{Kind: domain.KindFill, Symbol: "BTCUSDT", TimestampMs: 1500, Fields: map[string]float64{}},
		{Kind: domain.KindError, Symbol: "BTCUSDT", TimestampMs: 1600, Fields: map[string]float64{}},
		snapshotEvent("ETHUSDT", 1700, map[string]float64{}),
		snapshotEvent("BTCUSDT", 2000, map[string]float64{}),
	}

	snapshots := NormalizeSymbol("run-1", "BTCUSDT", events)

	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(snapshots))
	}
	if snapshots[0].SequenceIndex != 0 || snapshots[1].SequenceIndex != 1 {
		t.Errorf("Expected contiguous sequence indexes, got %d and %d",
			snapshots[0].SequenceIndex, snapshots[1].SequenceIndex)
	}
}

func TestNormalizeSymbol_MissingTimestampKeepsPlaceholder(t *testing.T) {
	events := []*domain.RawEvent{
		snapshotEvent("BTCUSDT", domain.TimestampMissing, map[string]float64{}),
	}

	snapshots := NormalizeSymbol("run-1", "BTCUSDT", events)

	if snapshots[0].TimestampMs != domain.TimestampMissing {
		t.Errorf("Expected placeholder timestamp, got %d", snapshots[0].TimestampMs)
	}
}

func TestNormalizeSymbol_WalletBalanceSeenFlag(t *testing.T) {
	// walletBalance appears only in the last record; every snapshot must
	// still carry the flag so the equity builder can decide the baseline.
	events := []*domain.RawEvent{
		snapshotEvent("BTCUSDT", 1000, map[string]float64{}),
		snapshotEvent("BTCUSDT", 2000, map[string]float64{domain.FieldWalletBalance: 500}),
	}

	snapshots := NormalizeSymbol("run-1", "BTCUSDT", events)

	for i, s := range snapshots {
		if !s.WalletBalanceSeen {
			t.Errorf("Snapshot %d: expected WalletBalanceSeen", i)
		}
	}

	none := NormalizeSymbol("run-1", "BTCUSDT", []*domain.RawEvent{
		snapshotEvent("BTCUSDT", 1000, map[string]float64{}),
	})
	if none[0].WalletBalanceSeen {
		t.Error("Expected WalletBalanceSeen false when never present")
	}
}

func TestNormalizeSymbol_PositionSideWithoutQty(t *testing.T) {
	events := []*domain.RawEvent{
		{Kind: domain.KindSnapshot, Symbol: "BTCUSDT", TimestampMs: 1000,
			Fields: map[string]float64{}, PositionSide: domain.SideLong},
		{Kind: domain.KindSnapshot, Symbol: "BTCUSDT", TimestampMs: 2000,
			Fields: map[string]float64{}, PositionSide: domain.SideFlat},
	}

	snapshots := NormalizeSymbol("run-1", "BTCUSDT", events)

	if snapshots[0].PositionQty != 1 {
		t.Errorf("Expected synthesized qty 1 for LONG, got %v", snapshots[0].PositionQty)
	}
	if snapshots[1].PositionQty != 0 {
		t.Errorf("Expected synthesized qty 0 for FLAT, got %v", snapshots[1].PositionQty)
	}
}
