package metrics

import (
	"math"

	"session-report-lab/internal/domain"
)

// ComputeSummary derives the performance summary of one run/symbol from its
// closed trade outcomes. Zero-pnl outcomes count as neither win nor loss
// but are included in samples and avgOutcome.
func ComputeSummary(runID, symbol string, outcomes []*domain.TradeOutcome, syntheticBaseline bool, skippedRecords int) *domain.PerformanceSummary {
	summary := &domain.PerformanceSummary{
		RunID:             runID,
		Symbol:            symbol,
		Samples:           len(outcomes),
		SyntheticBaseline: syntheticBaseline,
		SkippedRecords:    skippedRecords,
	}
	if len(outcomes) == 0 {
		return summary
	}

	var (
		total       float64
		grossProfit float64
		grossLoss   float64
	)
	for _, o := range outcomes {
		total += o.Pnl
		switch {
		case o.Pnl > 0:
			summary.Wins++
			grossProfit += o.Pnl
		case o.Pnl < 0:
			summary.Losses++
			grossLoss += o.Pnl
		}
	}

	summary.AvgOutcome = total / float64(len(outcomes))
	if decided := summary.Wins + summary.Losses; decided > 0 {
		summary.WinRate = float64(summary.Wins) / float64(decided)
	}
	if summary.Wins > 0 {
		summary.AvgWin = grossProfit / float64(summary.Wins)
	}
	if summary.Losses > 0 {
		summary.AvgLoss = grossLoss / float64(summary.Losses)
	}
	summary.ProfitFactor = profitFactor(grossProfit, math.Abs(grossLoss))

	return summary
}

// profitFactor is gross profit over gross loss; +Inf when there are gains
// but no losses, 0 when there are neither.
func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}
