// Command ingest persists a recorded trading session into PostgreSQL and
// ClickHouse so reports can be regenerated later without the source log.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"session-report-lab/internal/config"
	"session-report-lab/internal/domain"
	"session-report-lab/internal/ingestion"
	"session-report-lab/internal/logger"
	"session-report-lab/internal/observability"
	"session-report-lab/internal/pipeline"
	chstore "session-report-lab/internal/storage/clickhouse"
	"session-report-lab/internal/storage/migrations"
	pgstore "session-report-lab/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to YAML config file")
	inputPath := flag.String("input", "", "Recorded session file (pdf_data.json shape)")
	metaPath := flag.String("meta", "", "Session metadata file (paired with --log)")
	logPath := flag.String("log", "", "JSONL event log file (paired with --meta)")
	outputDir := flag.String("output", "", "Report output directory (overrides config)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickhouseDSN = *clickhouseDSN
	}

	if (*inputPath != "") == (*metaPath != "" || *logPath != "") {
		fmt.Fprintln(os.Stderr, "Error: specify either --input or --meta/--log")
		os.Exit(1)
	}
	if (*metaPath == "") != (*logPath == "") {
		fmt.Fprintln(os.Stderr, "Error: --meta and --log must be used together")
		os.Exit(1)
	}
	if !cfg.DatabaseMode() {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required")
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.New()
	batchID := uuid.NewString()
	entry := log.WithComponent("ingest").WithField("batch_id", batchID)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			entry.WithField("addr", *metricsAddr).Info("metrics server listening")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				entry.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to ClickHouse: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := migrations.RunPostgres(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying PostgreSQL migrations: %v\n", err)
		os.Exit(1)
	}
	if err := migrations.RunClickhouse(ctx, conn); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying ClickHouse migrations: %v\n", err)
		os.Exit(1)
	}

	var (
		session *domain.SessionContext
		events  []*domain.RawEvent
		stats   ingestion.DecodeStats
	)
	if *inputPath != "" {
		session, events, stats, err = ingestion.LoadSessionFile(*inputPath)
	} else {
		session, events, stats, err = ingestion.LoadLogPair(*metaPath, *logPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		os.Exit(1)
	}

	stores := &pipeline.Stores{
		Sessions:   pgstore.NewSessionStore(pool),
		Snapshots:  pgstore.NewSnapshotStore(pool),
		Outcomes:   pgstore.NewTradeOutcomeStore(pool),
		Equity:     chstore.NewEquityPointStore(conn),
		Aggregates: chstore.NewPerformanceAggregateStore(conn),
	}
	p := pipeline.New(stores, cfg.OutputDir).
		WithSamplingPeriod(cfg.SamplingPeriodMs).
		WithEpsilon(cfg.Epsilon).
		WithLogger(log)

	res, err := p.Run(ctx, session, events, stats)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error ingesting session: %v\n", err)
		os.Exit(1)
	}

	entry.WithField("run_id", res.RunID).
		WithField("symbols", len(res.Symbols)).
		WithField("skipped_records", res.SkippedRecords).
		Info("session ingested")
	fmt.Printf("Session %s ingested (batch %s)\n", res.RunID, batchID)
	for _, f := range res.OutputFiles {
		fmt.Printf("  - %s\n", f)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
