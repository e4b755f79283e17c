package reporting

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"session-report-lab/internal/domain"
)

func testSession() *domain.SessionContext {
	return &domain.SessionContext{
		RunID:               "ai-1772210818683",
		RunStartTimestampMs: 1772210818683,
		Symbols:             []string{"BTCUSDT"},
		Config:              map[string]string{"leverage": "5", "mode": "dry-run"},
	}
}

func testSymbolData() *SymbolData {
	return &SymbolData{
		Symbol: "BTCUSDT",
		EquityPoints: []*domain.EquityPoint{
			{RunID: "r", Symbol: "BTCUSDT", TimestampMs: 1000, Equity: 1000, PeakEquity: 1000, DrawdownPct: 0},
			{RunID: "r", Symbol: "BTCUSDT", TimestampMs: 2000, Equity: 950, PeakEquity: 1000, DrawdownPct: 0.05},
		},
		Outcomes: []*domain.TradeOutcome{
			{OutcomeID: "o1", RunID: "r", Symbol: "BTCUSDT", OpenTimestampMs: 1000, CloseTimestampMs: 2000, Pnl: -50, IsWin: false},
		},
		Summary: &domain.PerformanceSummary{
			RunID: "r", Symbol: "BTCUSDT",
			Samples: 1, Wins: 0, Losses: 1,
			WinRate: 0, AvgOutcome: -50, AvgWin: 0, AvgLoss: -50,
			ProfitFactor: 0, SkippedRecords: 2,
		},
	}
}

func TestAssembleReport_Sections(t *testing.T) {
	sections := AssembleReport(testSession(), []*SymbolData{testSymbolData()}, 2)

	if len(sections) != 4 {
		t.Fatalf("Expected 4 sections, got %d", len(sections))
	}

	if sections[0].Title != "Session Overview" {
		t.Errorf("Expected overview first, got %q", sections[0].Title)
	}
	if sections[1].Title != "Equity Curve (BTCUSDT)" {
		t.Errorf("Unexpected section order: %q", sections[1].Title)
	}
	if sections[2].Title != "Trade Outcomes (BTCUSDT)" {
		t.Errorf("Unexpected section order: %q", sections[2].Title)
	}
	if sections[3].Title != "Performance (BTCUSDT)" {
		t.Errorf("Unexpected section order: %q", sections[3].Title)
	}

	// Skipped-record count always appears in the overview.
	foundSkipped := false
	for _, row := range sections[0].Rows {
		if row[0] == "Skipped records" && row[1] == "2" {
			foundSkipped = true
		}
	}
	if !foundSkipped {
		t.Error("Expected skipped record count in overview section")
	}

	if len(sections[1].Rows) != 2 {
		t.Errorf("Expected 2 equity rows, got %d", len(sections[1].Rows))
	}
	if sections[2].Rows[0][3] != "LOSS" {
		t.Errorf("Expected LOSS result, got %q", sections[2].Rows[0][3])
	}
}

func TestAssembleReport_Idempotent(t *testing.T) {
	session := testSession()
	data := []*SymbolData{testSymbolData()}

	first := AssembleReport(session, data, 2)
	second := AssembleReport(session, data, 2)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical section sequences for identical input")
	}

	// Rendered output is byte-identical too when the clock is fixed.
	at := time.Unix(1772210818, 0)
	if RenderMarkdown(first, at) != RenderMarkdown(second, at) {
		t.Error("Expected byte-identical markdown")
	}
	if RenderCSV(first) != RenderCSV(second) {
		t.Error("Expected byte-identical CSV")
	}
}

func TestAssembleReport_InsufficientData(t *testing.T) {
	session := testSession()
	session.Symbols = []string{"BTCUSDT", "ETHUSDT"}

	sections := AssembleReport(session, []*SymbolData{
		testSymbolData(),
		{Symbol: "ETHUSDT", Insufficient: true},
	}, 0)

	last := sections[len(sections)-1]
	if last.Title != "ETHUSDT" || !strings.Contains(last.Paragraph, "Insufficient data") {
		t.Errorf("Expected insufficient-data paragraph for ETHUSDT, got %+v", last)
	}
	if last.IsTable() {
		t.Error("Insufficient-data section must not be a table")
	}
}

func TestAssembleReport_SyntheticBaselineNoted(t *testing.T) {
	data := testSymbolData()
	data.Summary.SyntheticBaseline = true

	sections := AssembleReport(testSession(), []*SymbolData{data}, 0)

	perf := sections[3]
	if !strings.Contains(perf.Paragraph, "synthetic") {
		t.Errorf("Expected synthetic baseline note, got %q", perf.Paragraph)
	}
}

func TestFormatFloat_Infinity(t *testing.T) {
	data := testSymbolData()
	data.Summary.ProfitFactor = math.Inf(1)
	sections := AssembleReport(testSession(), []*SymbolData{data}, 0)

	perf := sections[3]
	found := false
	for _, row := range perf.Rows {
		if row[0] == "Profit factor" && row[1] == "inf" {
			found = true
		}
	}
	if !found {
		t.Error("Expected infinite profit factor rendered as \"inf\"")
	}
}
