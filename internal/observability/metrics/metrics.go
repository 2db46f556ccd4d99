package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "growmind_"

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "automation_runs_total",
			Help: "Automation runs by mode and result",
		},
		[]string{"mode", "result"},
	)
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "automation_run_duration_seconds",
			Help:    "Automation run duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	verdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "rule_verdicts_total",
			Help: "Rule verdicts by outcome",
		},
		[]string{"verdict"},
	)
	actionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "action_failures_total",
			Help: "Per-rule action failures by kind",
		},
		[]string{"kind"},
	)
	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "telemetry_ingest_total",
			Help: "Telemetry ingest requests by result",
		},
		[]string{"result"},
	)
	ingestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "telemetry_ingest_errors_total",
			Help: "Telemetry ingest errors by reason",
		},
		[]string{"reason"},
	)
	ingestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "telemetry_ingest_duration_seconds",
			Help:    "Telemetry ingest duration",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		runsTotal,
		runDuration,
		verdictsTotal,
		actionFailuresTotal,
		ingestTotal,
		ingestErrors,
		ingestDuration,
	)
}

// ObserveRun records one automation run.
func ObserveRun(mode, result string, duration time.Duration) {
	runsTotal.WithLabelValues(mode, result).Inc()
	runDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// IncVerdict counts one rule verdict.
func IncVerdict(verdict string) {
	verdictsTotal.WithLabelValues(verdict).Inc()
}

// IncActionFailure counts one per-rule action failure.
func IncActionFailure(kind string) {
	actionFailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveIngest records one telemetry ingest request.
func ObserveIngest(result string, duration time.Duration) {
	ingestTotal.WithLabelValues(result).Inc()
	ingestDuration.Observe(duration.Seconds())
}

// IncIngestError counts one ingest error by reason.
func IncIngestError(reason string) {
	ingestErrors.WithLabelValues(reason).Inc()
}
