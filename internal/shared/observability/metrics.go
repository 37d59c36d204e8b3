package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadowlint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadowlint_analysis_seconds",
		Help:    "Time spent running the shadowing rule on a source file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowlint_files_scanned_total",
		Help: "Total number of source files scanned.",
	})

	FindingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowlint_findings_total",
		Help: "Total number of shadowing findings emitted.",
	})

	LastScanFindings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shadowlint_last_scan_findings",
		Help: "Number of findings in the most recent scan.",
	})

	LastScanFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shadowlint_last_scan_files",
		Help: "Number of files in the most recent scan.",
	})

	StructuralErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowlint_structural_errors_total",
		Help: "Total number of structural parse errors encountered.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowlint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadowlint_rescans_throttled_total",
		Help: "Total number of watch-mode rescans delayed by the rate limiter.",
	})
)
