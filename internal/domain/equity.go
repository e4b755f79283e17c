package domain

// EquityPoint is one point of the reconstructed equity curve.
// Corresponds to the equity_timeseries table in ClickHouse.
//
// Invariants: PeakEquity = max(previous PeakEquity, Equity);
// DrawdownPct = (PeakEquity - Equity) / PeakEquity when PeakEquity > 0,
// else 0. DrawdownPct is in [0, 1] whenever PeakEquity > 0.
type EquityPoint struct {
	RunID       string
	Symbol      string
	TimestampMs int64
	Equity      float64
	PeakEquity  float64
	DrawdownPct float64
}
