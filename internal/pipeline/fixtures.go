package pipeline

import (
	"session-report-lab/internal/domain"
)

// Fixture run parameters.
const (
	FixtureRunID      = "fixture-1772210818683"
	fixtureRunStartMs = 1772210818683
)

// FixtureSession returns a deterministic demo session for running the
// pipeline without a recorded log. It covers the interesting decode
// shapes: carry-forward gaps, missing timestamps, a losing and a winning
// trade on one symbol and a wallet-less symbol that falls back to the
// synthetic equity baseline.
func FixtureSession() (*domain.SessionContext, []*domain.RawEvent) {
	session := &domain.SessionContext{
		RunID:               FixtureRunID,
		RunStartTimestampMs: fixtureRunStartMs,
		Symbols:             []string{"BTCUSDT", "ETHUSDT"},
		Config: map[string]string{
			"leverage":  "5",
			"maxSpread": "0.002",
			"mode":      "dry-run",
		},
	}

	events := []*domain.RawEvent{
		// BTCUSDT: open long, close at a loss, reopen, close at a profit.
		btcSnapshot(fixtureRunStartMs, map[string]float64{
			domain.FieldMarkPrice:     64000,
			domain.FieldWalletBalance: 10000,
			domain.FieldRealizedPnl:   0,
			domain.FieldPositionQty:   0,
		}),
		btcSnapshot(fixtureRunStartMs+1000, map[string]float64{
			domain.FieldMarkPrice:     64010,
			domain.FieldUnrealizedPnl: -5,
			domain.FieldPositionQty:   0.5,
		}),
		// Missing timestamp: the reconstructor interpolates it.
		btcSnapshot(domain.TimestampMissing, map[string]float64{
			domain.FieldMarkPrice:     63990,
			domain.FieldUnrealizedPnl: -15,
			domain.FieldFeePaid:       1.2,
		}),
		btcSnapshot(fixtureRunStartMs+3000, map[string]float64{
			domain.FieldMarkPrice:     63960,
			domain.FieldUnrealizedPnl: 0,
			domain.FieldRealizedPnl:   -20,
			domain.FieldPositionQty:   0,
		}),
		btcSnapshot(fixtureRunStartMs+4000, map[string]float64{
			domain.FieldMarkPrice:     63970,
			domain.FieldUnrealizedPnl: 12,
			domain.FieldPositionQty:   0.5,
		}),
		btcSnapshot(fixtureRunStartMs+5000, map[string]float64{
			domain.FieldMarkPrice:     64040,
			domain.FieldUnrealizedPnl: 0,
			domain.FieldRealizedPnl:   10,
			domain.FieldFundingPnl:    0.4,
			domain.FieldPositionQty:   0,
		}),

		// ETHUSDT: no walletBalance in the whole log, one winning trade.
		ethSnapshot(fixtureRunStartMs, map[string]float64{
			domain.FieldMarkPrice:   3300,
			domain.FieldRealizedPnl: 0,
			domain.FieldPositionQty: 0,
		}),
		ethSnapshot(fixtureRunStartMs+1000, map[string]float64{
			domain.FieldMarkPrice:     3305,
			domain.FieldUnrealizedPnl: 4,
			domain.FieldPositionQty:   2,
		}),
		ethSnapshot(fixtureRunStartMs+2000, map[string]float64{
			domain.FieldMarkPrice:     3312,
			domain.FieldUnrealizedPnl: 0,
			domain.FieldRealizedPnl:   14,
			domain.FieldPositionQty:   0,
		}),
	}

	return session, events
}

func btcSnapshot(ts int64, fields map[string]float64) *domain.RawEvent {
	return &domain.RawEvent{
		Kind:        domain.KindSnapshot,
		RunID:       FixtureRunID,
		Symbol:      "BTCUSDT",
		TimestampMs: ts,
		Fields:      fields,
	}
}

func ethSnapshot(ts int64, fields map[string]float64) *domain.RawEvent {
	return &domain.RawEvent{
		Kind:        domain.KindSnapshot,
		RunID:       FixtureRunID,
		Symbol:      "ETHUSDT",
		TimestampMs: ts,
		Fields:      fields,
	}
}
