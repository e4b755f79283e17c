// Command report turns a recorded trading session into a performance
// report (markdown, CSV and PDF). It runs from a session file, from
// built-in fixtures, or from a previously ingested run in the databases.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"session-report-lab/internal/config"
	"session-report-lab/internal/ingestion"
	"session-report-lab/internal/logger"
	"session-report-lab/internal/pipeline"
	chstore "session-report-lab/internal/storage/clickhouse"
	pgstore "session-report-lab/internal/storage/postgres"
)

func main() {
	// .env supplies DSN defaults; flags override.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to YAML config file")
	inputPath := flag.String("input", "", "Recorded session file (pdf_data.json shape)")
	metaPath := flag.String("meta", "", "Session metadata file (paired with --log)")
	logPath := flag.String("log", "", "JSONL event log file (paired with --meta)")
	useFixtures := flag.Bool("use-fixtures", false, "Run with the built-in demo session")
	runID := flag.String("run-id", "", "Run id to report on (database mode)")
	outputDir := flag.String("output", "", "Output directory (overrides config)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	samplingPeriodMs := flag.Int64("sampling-period-ms", 0, "Assumed snapshot interval for timestamp-less logs (overrides config)")
	epsilon := flag.Float64("epsilon", 0, "Minimum realizedPnl delta treated as a closed trade (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *samplingPeriodMs > 0 {
		cfg.SamplingPeriodMs = *samplingPeriodMs
	}
	if *epsilon > 0 {
		cfg.Epsilon = *epsilon
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickhouseDSN = *clickhouseDSN
	}

	modes := 0
	for _, set := range []bool{*inputPath != "", *metaPath != "" || *logPath != "", *useFixtures, *runID != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "Error: specify exactly one of --input, --meta/--log, --use-fixtures or --run-id")
		os.Exit(1)
	}
	if (*metaPath == "") != (*logPath == "") {
		fmt.Fprintln(os.Stderr, "Error: --meta and --log must be used together")
		os.Exit(1)
	}
	if *runID != "" && !cfg.DatabaseMode() {
		fmt.Fprintln(os.Stderr, "Error: --run-id requires --postgres-dsn and --clickhouse-dsn")
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.New()

	stores := pipeline.NewMemoryStores()
	if *runID != "" {
		dbStores, closeStores, oerr := openDatabaseStores(ctx, cfg)
		if oerr != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to databases: %v\n", oerr)
			os.Exit(1)
		}
		defer closeStores()
		stores = dbStores
	}

	p := pipeline.New(stores, cfg.OutputDir).
		WithSamplingPeriod(cfg.SamplingPeriodMs).
		WithEpsilon(cfg.Epsilon).
		WithLogger(log)

	var res *pipeline.Result
	switch {
	case *useFixtures:
		session, events := pipeline.FixtureSession()
		res, err = p.Run(ctx, session, events, ingestion.DecodeStats{Decoded: len(events), Snapshot: len(events)})
	case *inputPath != "":
		res, err = p.RunFile(ctx, *inputPath)
	case *metaPath != "":
		session, events, stats, lerr := ingestion.LoadLogPair(*metaPath, *logPath)
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "Error loading log pair: %v\n", lerr)
			os.Exit(1)
		}
		res, err = p.Run(ctx, session, events, stats)
	default:
		res, err = p.RunStored(ctx, *runID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report generated for run %s:\n", res.RunID)
	for _, f := range res.OutputFiles {
		fmt.Printf("  - %s\n", f)
	}
	if res.SkippedRecords > 0 {
		fmt.Printf("Skipped records: %d\n", res.SkippedRecords)
	}
	for _, s := range res.SkippedSymbols {
		fmt.Printf("No usable records for %s\n", s)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func openDatabaseStores(ctx context.Context, cfg *config.Config) (*pipeline.Stores, func(), error) {
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse: %w", err)
	}
	stores := &pipeline.Stores{
		Sessions:   pgstore.NewSessionStore(pool),
		Snapshots:  pgstore.NewSnapshotStore(pool),
		Outcomes:   pgstore.NewTradeOutcomeStore(pool),
		Equity:     chstore.NewEquityPointStore(conn),
		Aggregates: chstore.NewPerformanceAggregateStore(conn),
	}
	return stores, func() {
		conn.Close()
		pool.Close()
	}, nil
}
