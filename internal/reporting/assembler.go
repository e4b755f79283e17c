package reporting

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"session-report-lab/internal/domain"
)

// AssembleReport builds the ordered section sequence for one session.
// Pure function: identical input yields byte-identical sections, so it
// never reads a clock. skippedRecords is the total count of records
// dropped during decoding and normalization; it is always reported, even
// on success.
func AssembleReport(session *domain.SessionContext, symbols []*SymbolData, skippedRecords int) []Section {
	sections := []Section{overviewSection(session, symbols, skippedRecords)}

	for _, sym := range symbols {
		if sym.Insufficient {
			sections = append(sections, Section{
				Title:     sym.Symbol,
				Paragraph: fmt.Sprintf("Insufficient data: no usable records for %s in this session.", sym.Symbol),
			})
			continue
		}

		sections = append(sections,
			equitySection(sym),
			outcomesSection(sym),
			performanceSection(sym),
		)
	}

	return sections
}

func overviewSection(session *domain.SessionContext, symbols []*SymbolData, skippedRecords int) Section {
	names := make([]string, len(symbols))
	for i, sym := range symbols {
		names[i] = sym.Symbol
	}

	rows := [][]string{
		{"Run ID", session.RunID},
		{"Run start (ms)", strconv.FormatInt(session.RunStartTimestampMs, 10)},
		{"Symbols", strings.Join(names, ", ")},
		{"Skipped records", strconv.Itoa(skippedRecords)},
	}

	// Config rows in sorted key order for deterministic output.
	keys := make([]string, 0, len(session.Config))
	for k := range session.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{"config." + k, session.Config[k]})
	}

	return Section{
		Title:  "Session Overview",
		Header: []string{"Field", "Value"},
		Rows:   rows,
	}
}

func equitySection(sym *SymbolData) Section {
	rows := make([][]string, len(sym.EquityPoints))
	for i, p := range sym.EquityPoints {
		rows[i] = []string{
			strconv.FormatInt(p.TimestampMs, 10),
			formatFloat(p.Equity),
			formatFloat(p.PeakEquity),
			formatFloat(p.DrawdownPct * 100),
		}
	}

	return Section{
		Title:  fmt.Sprintf("Equity Curve (%s)", sym.Symbol),
		Header: []string{"Timestamp (ms)", "Equity", "Peak", "Drawdown %"},
		Rows:   rows,
	}
}

func outcomesSection(sym *SymbolData) Section {
	rows := make([][]string, len(sym.Outcomes))
	for i, o := range sym.Outcomes {
		rows[i] = []string{
			strconv.FormatInt(o.OpenTimestampMs, 10),
			strconv.FormatInt(o.CloseTimestampMs, 10),
			formatFloat(o.Pnl),
			outcomeResult(o),
		}
	}

	return Section{
		Title:  fmt.Sprintf("Trade Outcomes (%s)", sym.Symbol),
		Header: []string{"Open (ms)", "Close (ms)", "PnL", "Result"},
		Rows:   rows,
	}
}

func performanceSection(sym *SymbolData) Section {
	s := sym.Summary

	paragraph := fmt.Sprintf("%d closed trades (%d wins, %d losses).", s.Samples, s.Wins, s.Losses)
	if s.SyntheticBaseline {
		paragraph += " Equity baseline synthetic: walletBalance was never reported in this log."
	}

	return Section{
		Title:     fmt.Sprintf("Performance (%s)", sym.Symbol),
		Paragraph: paragraph,
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Samples", strconv.Itoa(s.Samples)},
			{"Wins", strconv.Itoa(s.Wins)},
			{"Losses", strconv.Itoa(s.Losses)},
			{"Win rate", formatFloat(s.WinRate)},
			{"Avg outcome", formatFloat(s.AvgOutcome)},
			{"Avg win", formatFloat(s.AvgWin)},
			{"Avg loss", formatFloat(s.AvgLoss)},
			{"Profit factor", formatFloat(s.ProfitFactor)},
			{"Skipped records", strconv.Itoa(s.SkippedRecords)},
		},
	}
}

func outcomeResult(o *domain.TradeOutcome) string {
	switch {
	case o.Pnl > 0:
		return "WIN"
	case o.Pnl < 0:
		return "LOSS"
	default:
		return "FLAT"
	}
}

// formatFloat renders a value with four decimals; infinities render as
// "inf" so the sentinel survives every output format.
func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
