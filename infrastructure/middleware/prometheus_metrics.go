// Package middleware provides cross-cutting concerns for the analysis
// engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus, exposing pipeline throughput, data-quality finding rates,
// and run latency.
type PrometheusMetrics struct {
	runLatency       *prometheus.HistogramVec
	sessionsTotal    *prometheus.CounterVec
	findingsTotal    *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and
// registers its metrics with reg. Pass nil to use the default global
// registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		runLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stopsignal_run_duration_seconds",
				Help:    "Wall-clock duration of pipeline runs.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "game_type"},
		),
		sessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stopsignal_sessions_evaluated_total",
				Help: "Total number of sessions evaluated.",
			},
			[]string{"game_type"},
		),
		findingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stopsignal_check_findings_total",
				Help: "Total number of data-quality findings recorded by evaluators.",
			},
			[]string{"game_type", "evaluator"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stopsignal_operations_total",
				Help: "Total number of engine operations by name.",
			},
			[]string{"operation"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// run latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string, duration time.Duration, labels map[string]string,
) {
	gameType, ok := labels["game_type"]
	if !ok {
		gameType = "unknown"
	}
	pm.runLatency.WithLabelValues(operation, gameType).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing the counter matching the metric name.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	gameType, ok := labels["game_type"]
	if !ok {
		gameType = "unknown"
	}

	switch metric {
	case "sessions_evaluated_total":
		pm.sessionsTotal.WithLabelValues(gameType).Add(value)
	case "check_findings_total":
		evaluator, ok := labels["evaluator"]
		if !ok {
			evaluator = "unknown"
		}
		pm.findingsTotal.WithLabelValues(gameType, evaluator).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric).Add(value)
	}
}
