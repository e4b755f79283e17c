package domain

// NormalizedSnapshot is one uniform typed record of account/market state.
// Corresponds to the snapshots table in PostgreSQL.
type NormalizedSnapshot struct {
	RunID         string
	Symbol        string
	SequenceIndex int   // position in the symbol's log order
	TimestampMs   int64 // Unix ms; derived when the source record had none

	MarkPrice     float64
	WalletBalance float64
	UnrealizedPnl float64
	RealizedPnl   float64
	FeePaid       float64
	FundingPnl    float64

	// PositionQty is the signed open quantity (sign encodes side).
	// Zero when flat or when the log never reports a position.
	PositionQty float64

	// WalletBalanceSeen is true once walletBalance appeared in the log for
	// this symbol. Drives the synthetic-baseline fallback of the equity
	// curve builder.
	WalletBalanceSeen bool
}

// Side returns the position side implied by PositionQty.
func (s *NormalizedSnapshot) Side() string {
	switch {
	case s.PositionQty > 0:
		return SideLong
	case s.PositionQty < 0:
		return SideShort
	default:
		return SideFlat
	}
}
