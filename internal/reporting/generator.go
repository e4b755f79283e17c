package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/storage"
)

// Generator assembles and renders reports from stored derived data.
type Generator struct {
	sessionStore   storage.SessionStore
	equityStore    storage.EquityPointStore
	outcomeStore   storage.TradeOutcomeStore
	aggregateStore storage.PerformanceAggregateStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	sessionStore storage.SessionStore,
	equityStore storage.EquityPointStore,
	outcomeStore storage.TradeOutcomeStore,
	aggregateStore storage.PerformanceAggregateStore,
) *Generator {
	return &Generator{
		sessionStore:   sessionStore,
		equityStore:    equityStore,
		outcomeStore:   outcomeStore,
		aggregateStore: aggregateStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output. The
// clock feeds only the renderers; assembled sections never depend on it.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Assemble loads one run's derived data and builds its section sequence.
// A missing session is a structural error; symbols without derived data
// degrade to insufficient-data sections. skippedRecords is the run-level
// decode skip count known to the caller; it keeps the overview honest even
// when every symbol degraded and no stored summary carries the count.
func (g *Generator) Assemble(ctx context.Context, runID string, skippedRecords int) ([]Section, error) {
	session, err := g.sessionStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", runID, err)
	}

	summaries, err := g.aggregateStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	summaryBySymbol := make(map[string]*domain.PerformanceSummary, len(summaries))
	for _, s := range summaries {
		summaryBySymbol[s.Symbol] = s
	}

	var symbols []*SymbolData
	totalSkipped := skippedRecords
	for _, symbol := range session.Symbols {
		equity, err := g.equityStore.GetByRunSymbol(ctx, runID, symbol)
		if err != nil {
			return nil, fmt.Errorf("load equity points for %s: %w", symbol, err)
		}

		summary, hasSummary := summaryBySymbol[symbol]
		if len(equity) == 0 || !hasSummary {
			symbols = append(symbols, &SymbolData{Symbol: symbol, Insufficient: true})
			continue
		}

		outcomes, err := g.outcomeStore.GetByRunSymbol(ctx, runID, symbol)
		if err != nil {
			return nil, fmt.Errorf("load outcomes for %s: %w", symbol, err)
		}

		// Every summary row carries the run-level skipped count.
		if summary.SkippedRecords > totalSkipped {
			totalSkipped = summary.SkippedRecords
		}
		symbols = append(symbols, &SymbolData{
			Symbol:       symbol,
			EquityPoints: equity,
			Outcomes:     outcomes,
			Summary:      summary,
		})
	}

	return AssembleReport(session, symbols, totalSkipped), nil
}

// RenderFiles writes the markdown, CSV and PDF renditions of a section
// sequence into outputDir. Returns the written paths.
func (g *Generator) RenderFiles(sections []Section, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	generatedAt := g.now()

	mdPath := filepath.Join(outputDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(sections, generatedAt)), 0o644); err != nil {
		return nil, fmt.Errorf("%w: write markdown: %v", ErrRender, err)
	}

	csvPath := filepath.Join(outputDir, "report.csv")
	if err := os.WriteFile(csvPath, []byte(RenderCSV(sections)), 0o644); err != nil {
		return nil, fmt.Errorf("%w: write csv: %v", ErrRender, err)
	}

	pdfPath := filepath.Join(outputDir, "report.pdf")
	if err := RenderPDF(sections, pdfPath, generatedAt); err != nil {
		return nil, err
	}

	return []string{mdPath, csvPath, pdfPath}, nil
}
