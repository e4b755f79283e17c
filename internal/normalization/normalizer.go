package normalization

import (
	"session-report-lab/internal/domain"
)

// NormalizeSymbol converts the snapshot records of one symbol into
// NormalizedSnapshots, in log order. Numeric fields absent from a record
// carry forward the last observed value for that symbol; the first
// occurrence defaults to 0.0. Missing timestamps keep the
// TimestampMissing placeholder for the timeline reconstructor.
func NormalizeSymbol(runID, symbol string, events []*domain.RawEvent) []*domain.NormalizedSnapshot {
	// Last-known-value cache, one slot per numeric field.
	last := make(map[string]float64, len(domain.SnapshotFields))
	for _, name := range domain.SnapshotFields {
		last[name] = 0.0
	}

	var (
		snapshots         []*domain.NormalizedSnapshot
		walletBalanceSeen bool
	)

	for _, e := range events {
		if e.Kind != domain.KindSnapshot || e.Symbol != symbol {
			continue
		}

		for _, name := range domain.SnapshotFields {
			if v, ok := e.Fields[name]; ok {
				last[name] = v
				if name == domain.FieldWalletBalance {
					walletBalanceSeen = true
				}
			}
		}

		snap := &domain.NormalizedSnapshot{
			RunID:         runID,
			Symbol:        symbol,
			SequenceIndex: len(snapshots),
			TimestampMs:   e.TimestampMs,
			MarkPrice:     last[domain.FieldMarkPrice],
			WalletBalance: last[domain.FieldWalletBalance],
			UnrealizedPnl: last[domain.FieldUnrealizedPnl],
			RealizedPnl:   last[domain.FieldRealizedPnl],
			FeePaid:       last[domain.FieldFeePaid],
			FundingPnl:    last[domain.FieldFundingPnl],
			PositionQty:   last[domain.FieldPositionQty],
		}

		// A side string without an explicit quantity still moves the
		// position state machine; synthesize a unit quantity.
		if _, hasQty := e.Fields[domain.FieldPositionQty]; !hasQty && e.PositionSide != "" {
			switch e.PositionSide {
			case domain.SideLong:
				snap.PositionQty = 1
			case domain.SideShort:
				snap.PositionQty = -1
			case domain.SideFlat:
				snap.PositionQty = 0
			}
			last[domain.FieldPositionQty] = snap.PositionQty
		}

		snapshots = append(snapshots, snap)
	}

	// The synthetic-baseline fallback needs to know whether the wallet
	// balance was observed anywhere in the session, not just so far.
	for _, snap := range snapshots {
		snap.WalletBalanceSeen = walletBalanceSeen
	}

	return snapshots
}
