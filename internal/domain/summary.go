package domain

// PerformanceSummary is the derived per-symbol performance block.
// Recomputed once per report generation, never persisted incrementally.
// Corresponds to the performance_aggregates table in ClickHouse.
type PerformanceSummary struct {
	RunID  string
	Symbol string

	Samples int // all outcomes, zero-pnl included
	Wins    int
	Losses  int

	// WinRate = Wins / (Wins + Losses); 0 when no decided outcomes.
	WinRate    float64
	AvgOutcome float64 // mean over all outcomes, zero-pnl included
	AvgWin     float64 // mean over winning outcomes, 0 when none
	AvgLoss    float64 // mean over losing outcomes (negative), 0 when none

	// ProfitFactor = grossProfit / |grossLoss|. +Inf when grossLoss is 0
	// and grossProfit > 0; 0 when both are 0.
	ProfitFactor float64

	// SyntheticBaseline is set when walletBalance never appeared in the
	// log and the equity curve was accumulated from a zero baseline.
	SyntheticBaseline bool

	// SkippedRecords counts malformed or unknown records dropped during
	// decoding and normalization for this symbol's session.
	SkippedRecords int
}
