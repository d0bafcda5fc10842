package runner

import "github.com/prometheus/client_golang/prometheus"

var (
	artifactLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runnerd",
			Subsystem: "runner",
			Name:      "artifact_loads_total",
			Help:      "Total artifact deserializations performed by replicas",
		},
		[]string{"tag", "status"},
	)

	batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runnerd",
			Subsystem: "runner",
			Name:      "batches_total",
			Help:      "Total batches executed",
		},
		[]string{"tag", "status"},
	)

	batchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "runnerd",
			Subsystem: "runner",
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch execution in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tag"},
	)

	batchRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "runnerd",
			Subsystem: "runner",
			Name:      "batch_rows",
			Help:      "Rows per executed batch",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(artifactLoadsTotal, batchesTotal, batchDuration, batchRows)
}
