package metrics

import (
	"math"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/idhash"
)

// DetectOutcomes segments an ordered snapshot sequence into closed trade
// outcomes. A close is detected when realizedPnl moves by more than epsilon
// between consecutive snapshots, or when the position side transitions out
// of its current state (to flat, or a direct long/short flip).
//
// realizedPnl is cumulative from session start, so each outcome's pnl is the
// realized value at close minus the value at the previous close (zero for
// the first trade). Sub-epsilon residuals on side-driven closes are
// reported as exactly zero, counting as neither win nor loss.
func DetectOutcomes(snapshots []*domain.NormalizedSnapshot, epsilon float64) []*domain.TradeOutcome {
	if len(snapshots) < 2 {
		return nil
	}
	if epsilon <= 0 {
		epsilon = domain.DefaultPnlEpsilon
	}

	var outcomes []*domain.TradeOutcome

	first := snapshots[0]
	prevRealized := first.RealizedPnl
	prevSide := first.Side()
	pnlBaseline := 0.0

	// Open timestamp of the current position; the session start stands in
	// when no flat-to-open transition was ever tracked.
	openTs := int64(0)
	openTracked := false
	if prevSide != domain.SideFlat {
		openTs = first.TimestampMs
		openTracked = true
	}
	lastCloseTs := first.TimestampMs

	for _, snap := range snapshots[1:] {
		side := snap.Side()
		delta := snap.RealizedPnl - prevRealized

		closedByPnl := math.Abs(delta) > epsilon
		closedBySide := prevSide != domain.SideFlat && side != prevSide

		if closedByPnl || closedBySide {
			pnl := snap.RealizedPnl - pnlBaseline
			if math.Abs(pnl) <= epsilon {
				pnl = 0
			}

			open := lastCloseTs
			if openTracked {
				open = openTs
			}

			outcomes = append(outcomes, &domain.TradeOutcome{
				OutcomeID:        idhash.ComputeOutcomeID(snap.RunID, snap.Symbol, snap.TimestampMs, len(outcomes)),
				RunID:            snap.RunID,
				Symbol:           snap.Symbol,
				OpenTimestampMs:  open,
				CloseTimestampMs: snap.TimestampMs,
				Pnl:              pnl,
				IsWin:            pnl > 0,
			})

			pnlBaseline = snap.RealizedPnl
			lastCloseTs = snap.TimestampMs
			openTracked = false
		}

		// A flat-to-open transition, or the reopening half of a flip,
		// starts the next position at this snapshot.
		if side != domain.SideFlat && (prevSide == domain.SideFlat || side != prevSide) {
			openTs = snap.TimestampMs
			openTracked = true
		}

		prevRealized = snap.RealizedPnl
		prevSide = side
	}

	return outcomes
}
