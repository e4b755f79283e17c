package domain

// TradeOutcome is one closed trade inferred from realizedPnl deltas.
// Outcomes are append-only for the lifetime of a session.
// Corresponds to the trade_outcomes table in PostgreSQL.
type TradeOutcome struct {
	OutcomeID       string // deterministic hash, see idhash
	RunID           string
	Symbol          string
	OpenTimestampMs int64
	CloseTimestampMs int64
	Pnl             float64
	IsWin           bool // Pnl > 0; zero pnl is neither win nor loss
}
