package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncCycles counts per-source sync passes by result ("ok", "failed", "cancelled")
	SyncCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regwatch_sync_cycles_total",
		Help: "Total per-source sync passes by result",
	}, []string{"source", "result"})

	// SyncDuration tracks how long a per-source sync pass takes
	SyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "regwatch_sync_duration_seconds",
		Help:    "Per-source sync duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
	}, []string{"source"})

	ChangesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regwatch_changes_detected_total",
		Help: "Change records appended to the history by type and impact",
	}, []string{"change_type", "impact"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regwatch_notifications_total",
		Help: "Aggregated alert notifications by result",
	}, []string{"result"})

	DocumentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regwatch_document_failures_total",
		Help: "Documents skipped during a sync because their versions could not be fetched",
	}, []string{"source"})
)
