package reporting

import (
	"errors"

	"session-report-lab/internal/domain"
)

// ErrRender marks a failed render. Rendering errors are fatal for the
// invocation; the assembled section list stays available for diagnostics.
var ErrRender = errors.New("render failed")

// Section is one block of an assembled report: a title plus either a table
// (header and rows) or a paragraph. Renderers consume sections in order
// and own all pagination and styling.
type Section struct {
	Title     string
	Header    []string
	Rows      [][]string
	Paragraph string
}

// IsTable reports whether the section carries tabular content.
func (s *Section) IsTable() bool {
	return len(s.Header) > 0
}

// SymbolData bundles one symbol's derived series for assembly.
// Insufficient marks a symbol with no usable records; such symbols render
// as an "insufficient data" paragraph instead of tables.
type SymbolData struct {
	Symbol       string
	EquityPoints []*domain.EquityPoint
	Outcomes     []*domain.TradeOutcome
	Summary      *domain.PerformanceSummary
	Insufficient bool
}
