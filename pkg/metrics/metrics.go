// Package metrics exposes Prometheus metrics for centroid construction and
// message routing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unknownLabel = "unknown"

var (
	// RoutingLatency tracks the duration of route calls, embedding included.
	RoutingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intent_routing_latency_seconds",
			Help:    "The duration of intent routing calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"},
	)

	// RoutingCount tracks routed messages by winning intent and outcome flags.
	RoutingCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_routing_total",
			Help: "The total number of routed messages",
		},
		[]string{"intent", "ambiguous", "boosted"},
	)

	// RoutingConfidence tracks the post-boost confidence of winning intents.
	RoutingConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intent_routing_confidence",
			Help:    "The post-boost confidence of the winning intent",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"intent"},
	)

	// CentroidCacheOps tracks disk-cache reads and writes.
	CentroidCacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_centroid_cache_operations_total",
			Help: "The total number of centroid cache operations",
		},
		[]string{"operation", "status"},
	)

	// CentroidBuildDuration tracks the wall time of the full centroid build.
	CentroidBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intent_centroid_build_seconds",
			Help:    "The duration of centroid map construction in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// CentroidCount tracks how many intents survived centroid construction.
	CentroidCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intent_centroids",
			Help: "The number of intents with a constructed centroid",
		},
	)
)

// RecordRouting records one routed message.
func RecordRouting(intent, method string, ambiguous, boosted bool, confidence, seconds float64) {
	if intent == "" {
		intent = unknownLabel
	}
	if method == "" {
		method = unknownLabel
	}
	RoutingLatency.WithLabelValues(method).Observe(seconds)
	RoutingCount.WithLabelValues(intent, boolLabel(ambiguous), boolLabel(boosted)).Inc()
	RoutingConfidence.WithLabelValues(intent).Observe(confidence)
}

// RecordCacheOp records a centroid cache read or write.
func RecordCacheOp(operation, status string) {
	if operation == "" {
		operation = unknownLabel
	}
	if status == "" {
		status = "success"
	}
	CentroidCacheOps.WithLabelValues(operation, status).Inc()
}

// RecordBuild records a completed centroid build.
func RecordBuild(seconds float64, centroids int) {
	CentroidBuildDuration.Observe(seconds)
	CentroidCount.Set(float64(centroids))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
