// Package pipeline orchestrates the full session report flow: ingest a
// recorded session, normalize it, compute per-symbol metrics and render
// the report files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"session-report-lab/internal/domain"
	"session-report-lab/internal/ingestion"
	"session-report-lab/internal/logger"
	"session-report-lab/internal/metrics"
	"session-report-lab/internal/normalization"
	"session-report-lab/internal/observability"
	"session-report-lab/internal/reporting"
	"session-report-lab/internal/storage"
	"session-report-lab/internal/storage/memory"
)

// Stores bundles the five stores the pipeline writes and reads.
type Stores struct {
	Sessions   storage.SessionStore
	Snapshots  storage.SnapshotStore
	Outcomes   storage.TradeOutcomeStore
	Equity     storage.EquityPointStore
	Aggregates storage.PerformanceAggregateStore
}

// NewMemoryStores returns a Stores backed entirely by in-memory
// implementations, used by file and fixture mode.
func NewMemoryStores() *Stores {
	return &Stores{
		Sessions:   memory.NewSessionStore(),
		Snapshots:  memory.NewSnapshotStore(),
		Outcomes:   memory.NewTradeOutcomeStore(),
		Equity:     memory.NewEquityPointStore(),
		Aggregates: memory.NewPerformanceAggregateStore(),
	}
}

// Result summarizes one pipeline run.
type Result struct {
	RunID          string
	Symbols        []string
	SkippedSymbols []string // symbols with no usable records
	SkippedRecords int
	OutputFiles    []string
}

// Pipeline runs the report flow end to end over a set of stores.
type Pipeline struct {
	stores           *Stores
	outputDir        string
	samplingPeriodMs int64
	epsilon          float64
	clock            func() time.Time
	log              *logger.Log
}

// New creates a pipeline with default run parameters.
func New(stores *Stores, outputDir string) *Pipeline {
	return &Pipeline{
		stores:           stores,
		outputDir:        outputDir,
		samplingPeriodMs: domain.DefaultSamplingPeriodMs,
		epsilon:          domain.DefaultPnlEpsilon,
		clock:            func() time.Time { return time.Now().UTC() },
		log:              logger.New(),
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// WithSamplingPeriod overrides the assumed snapshot interval used when a
// log carries no resolvable timestamps.
func (p *Pipeline) WithSamplingPeriod(ms int64) *Pipeline {
	if ms > 0 {
		p.samplingPeriodMs = ms
	}
	return p
}

// WithEpsilon overrides the minimum realizedPnl delta treated as a close.
func (p *Pipeline) WithEpsilon(eps float64) *Pipeline {
	if eps > 0 {
		p.epsilon = eps
	}
	return p
}

// WithLogger sets the logger.
func (p *Pipeline) WithLogger(log *logger.Log) *Pipeline {
	p.log = log
	return p
}

// RunFile loads a recorded session file and runs the full pipeline on it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	session, events, stats, err := ingestion.LoadSessionFile(path)
	if err != nil {
		return nil, fmt.Errorf("load session file %s: %w", path, err)
	}
	return p.Run(ctx, session, events, stats)
}

// RunStored generates a report for a session already persisted in the
// stores, skipping ingestion and normalization.
func (p *Pipeline) RunStored(ctx context.Context, runID string) (*Result, error) {
	start := time.Now()

	session, err := p.stores.Sessions.GetByRunID(ctx, runID)
	if err != nil {
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("load session %s: %w", runID, err)
	}

	res, err := p.report(ctx, session, 0)
	if err != nil {
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return nil, err
	}
	observability.RecordPipelineRun("ok", time.Since(start).Seconds())
	return res, nil
}

// Run normalizes the decoded session, computes metrics per symbol and
// writes the report files. Per-record decode failures were already
// counted into stats; a symbol with no usable records degrades to an
// insufficient-data section instead of failing the run.
func (p *Pipeline) Run(ctx context.Context, session *domain.SessionContext, events []*domain.RawEvent, stats ingestion.DecodeStats) (*Result, error) {
	start := time.Now()
	log := p.log.WithRun(session.RunID)

	observability.RecordDecoded(stats.Decoded)
	observability.RecordSkipped("malformed", stats.Skipped)
	observability.RecordSkipped("unknown_kind", stats.Unknown)

	runner := normalization.NewRunner(p.stores.Sessions, p.stores.Snapshots, p.samplingPeriodMs)
	normRes, err := runner.NormalizeSession(ctx, session, events)
	if err != nil {
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("normalize session %s: %w", session.RunID, err)
	}
	observability.RecordNormalized(normRes.Total)
	observability.RecordTimestampsSynthesized(normRes.SynthesizedTimestamps)
	log.WithField("component", "normalization").
		WithField("snapshots", normRes.Total).
		Info("session normalized")

	res, err := p.report(ctx, session, stats.Skipped+stats.Unknown)
	if err != nil {
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return nil, err
	}
	observability.RecordPipelineRun("ok", time.Since(start).Seconds())
	return res, nil
}

// report aggregates metrics per symbol and renders the output files.
func (p *Pipeline) report(ctx context.Context, session *domain.SessionContext, skippedRecords int) (*Result, error) {
	log := p.log.WithRun(session.RunID)

	agg := metrics.NewAggregator(p.stores.Snapshots, p.stores.Outcomes, p.stores.Equity, p.stores.Aggregates, p.epsilon)
	result := &Result{
		RunID:          session.RunID,
		Symbols:        session.Symbols,
		SkippedRecords: skippedRecords,
	}

	for _, symbol := range session.Symbols {
		sm, err := agg.ComputeAndStore(ctx, session.RunID, symbol, skippedRecords)
		if errors.Is(err, metrics.ErrNoSnapshots) {
			observability.RecordSymbolSkipped()
			result.SkippedSymbols = append(result.SkippedSymbols, symbol)
			log.WithField("component", "metrics").
				WithField("symbol", symbol).
				Warn("no usable records, skipping symbol")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("aggregate %s/%s: %w", session.RunID, symbol, err)
		}
		observability.RecordOutcomes(len(sm.Outcomes))
		observability.RecordEquityPoints(len(sm.EquityPoints))
	}

	gen := reporting.NewGenerator(p.stores.Sessions, p.stores.Equity, p.stores.Outcomes, p.stores.Aggregates).
		WithClock(p.clock)
	sections, err := gen.Assemble(ctx, session.RunID, skippedRecords)
	if err != nil {
		return nil, fmt.Errorf("assemble report %s: %w", session.RunID, err)
	}

	files, err := gen.RenderFiles(sections, p.outputDir)
	if err != nil {
		observability.RecordRenderError()
		return nil, fmt.Errorf("render report %s: %w", session.RunID, err)
	}
	for _, f := range files {
		observability.RecordReportGenerated(formatOf(f))
	}
	result.OutputFiles = files

	log.WithField("component", "reporting").
		WithField("files", len(files)).
		Info("report rendered")
	return result, nil
}

func formatOf(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "unknown"
	}
	return ext[1:]
}
