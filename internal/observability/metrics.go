// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RecordsDecoded prometheus.Counter
	RecordsSkipped *prometheus.CounterVec

	// Normalization metrics
	SnapshotsNormalized   prometheus.Counter
	TimestampsSynthesized prometheus.Counter

	// Analysis metrics
	OutcomesDetected  prometheus.Counter
	EquityPointsBuilt prometheus.Counter
	SymbolsSkipped    prometheus.Counter

	// Reporting metrics
	ReportsGenerated *prometheus.CounterVec
	RenderErrors     prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "session_report_lab"
	}

	return &Metrics{
		RecordsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_decoded_total",
			Help:      "Total number of log records decoded",
		}),
		RecordsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_skipped_total",
			Help:      "Total number of log records skipped by reason",
		}, []string{"reason"}),

		SnapshotsNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "snapshots_normalized_total",
			Help:      "Total number of snapshots produced by the normalizer",
		}),
		TimestampsSynthesized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "timestamps_synthesized_total",
			Help:      "Total number of timestamps filled in by the timeline reconstructor",
		}),

		OutcomesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "outcomes_detected_total",
			Help:      "Total number of trade outcomes detected",
		}),
		EquityPointsBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "equity_points_built_total",
			Help:      "Total number of equity curve points built",
		}),
		SymbolsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "symbols_skipped_total",
			Help:      "Total number of symbols skipped for insufficient data",
		}),

		ReportsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of report files generated by format",
		}, []string{"format"}),
		RenderErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "render_errors_total",
			Help:      "Total number of report render failures",
		}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"stage"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDecoded increments the decoded records counter.
func RecordDecoded(n int) {
	DefaultMetrics.RecordsDecoded.Add(float64(n))
}

// RecordSkipped records skipped records by reason.
func RecordSkipped(reason string, n int) {
	if n == 0 {
		return
	}
	DefaultMetrics.RecordsSkipped.WithLabelValues(reason).Add(float64(n))
}

// RecordNormalized increments the normalized snapshots counter.
func RecordNormalized(n int) {
	DefaultMetrics.SnapshotsNormalized.Add(float64(n))
}

// RecordTimestampsSynthesized counts timestamps filled in by the timeline
// reconstructor.
func RecordTimestampsSynthesized(n int) {
	DefaultMetrics.TimestampsSynthesized.Add(float64(n))
}

// RecordOutcomes increments the detected outcomes counter.
func RecordOutcomes(n int) {
	DefaultMetrics.OutcomesDetected.Add(float64(n))
}

// RecordEquityPoints increments the equity points counter.
func RecordEquityPoints(n int) {
	DefaultMetrics.EquityPointsBuilt.Add(float64(n))
}

// RecordSymbolSkipped increments the skipped symbols counter.
func RecordSymbolSkipped() {
	DefaultMetrics.SymbolsSkipped.Inc()
}

// RecordReportGenerated increments the generated reports counter for a format.
func RecordReportGenerated(format string) {
	DefaultMetrics.ReportsGenerated.WithLabelValues(format).Inc()
}

// RecordRenderError increments the render errors counter.
func RecordRenderError() {
	DefaultMetrics.RenderErrors.Inc()
}

// RecordPipelineRun records a pipeline run with its duration.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues("full").Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
