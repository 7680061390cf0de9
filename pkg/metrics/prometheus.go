package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	snapshots    *prometheus.CounterVec
	pairs        *prometheus.CounterVec
	ingested     prometheus.Counter
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder. Collectors are registered on the
// default registry, so only one Recorder may exist per process.
func New() *Recorder {
	return &Recorder{
		snapshots: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invenpulse_snapshots_computed_total",
				Help: "Statistics snapshots computed, by outcome",
			},
			[]string{"outcome"},
		),
		pairs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invenpulse_correlation_pairs_total",
				Help: "Correlation pairs evaluated, by outcome",
			},
			[]string{"outcome"},
		),
		ingested: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "invenpulse_consumption_records_ingested_total",
				Help: "Consumption records accepted from the ingest topic",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invenpulse_errors_total",
				Help: "Errors encountered, by type",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invenpulse_operation_duration_seconds",
				Help:    "Duration of engine operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSnapshotComputed counts one computed snapshot by outcome
// (computed, no_data, failed).
func (r *Recorder) RecordSnapshotComputed(outcome string) {
	r.snapshots.WithLabelValues(outcome).Inc()
}

// RecordCorrelationPairs counts evaluated pairs by outcome
// (significant, skipped, failed).
func (r *Recorder) RecordCorrelationPairs(outcome string, n int) {
	r.pairs.WithLabelValues(outcome).Add(float64(n))
}

// RecordIngested counts accepted consumption records.
func (r *Recorder) RecordIngested(n int) {
	r.ingested.Add(float64(n))
}

// RecordError counts an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency observes operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
