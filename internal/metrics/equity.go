package metrics

import (
	"session-report-lab/internal/domain"
)

// BuildEquityCurve folds an ordered snapshot sequence into equity points,
// one per snapshot, with a running peak and drawdown. Snapshots must be
// pre-sorted by timestamp.
//
// equity = walletBalance + unrealizedPnl. When the wallet balance was never
// observed in the session (legacy log format), equity falls back to
// realizedPnl + unrealizedPnl - feePaid + fundingPnl from a zero baseline;
// the second return value reports that synthetic baseline.
func BuildEquityCurve(snapshots []*domain.NormalizedSnapshot) ([]*domain.EquityPoint, bool) {
	if len(snapshots) == 0 {
		return nil, false
	}

	synthetic := !snapshots[0].WalletBalanceSeen

	points := make([]*domain.EquityPoint, 0, len(snapshots))
	var peak float64

	for i, snap := range snapshots {
		var equity float64
		if synthetic {
			equity = snap.RealizedPnl + snap.UnrealizedPnl - snap.FeePaid + snap.FundingPnl
		} else {
			equity = snap.WalletBalance + snap.UnrealizedPnl
		}

		if i == 0 || equity > peak {
			peak = equity
		}

		var drawdown float64
		if peak > 0 {
			drawdown = (peak - equity) / peak
		}

		points = append(points, &domain.EquityPoint{
			RunID:       snap.RunID,
			Symbol:      snap.Symbol,
			TimestampMs: snap.TimestampMs,
			Equity:      equity,
			PeakEquity:  peak,
			DrawdownPct: drawdown,
		})
	}

	return points, synthetic
}
