package domain

// SessionContext identifies one recorded trading session and its run
// parameters. It is passed explicitly into every pipeline stage; no stage
// reads ambient run state. Corresponds to the sessions table in PostgreSQL.
type SessionContext struct {
	RunID               string
	RunStartTimestampMs int64
	Symbols             []string

	// Config holds the run parameters as recorded in the session
	// metadata, values stringified at decode time so rendering stays
	// deterministic.
	Config map[string]string
}

// Default run parameters.
const (
	// DefaultSamplingPeriodMs is the assumed snapshot interval when a log
	// carries no resolvable timestamps at all.
	DefaultSamplingPeriodMs int64 = 1000

	// DefaultPnlEpsilon is the minimum realizedPnl delta treated as a
	// closed trade.
	DefaultPnlEpsilon = 1e-8
)
