package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency("pipeline_run", 150*time.Millisecond, map[string]string{"game_type": "STOP"})
	pm.RecordLatency("pipeline_run", 250*time.Millisecond, nil)

	count := testutil.CollectAndCount(reg, "stopsignal_run_duration_seconds")
	// One series per (operation, game_type) pair; the missing label
	// falls back to "unknown".
	assert.Equal(t, 2, count)
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordCounter("sessions_evaluated_total", 1, map[string]string{"game_type": "STOP"})
	pm.RecordCounter("sessions_evaluated_total", 1, map[string]string{"game_type": "STOP"})
	pm.RecordCounter("check_findings_total", 3, map[string]string{
		"game_type": "STOP", "evaluator": "points_checker",
	})
	pm.RecordCounter("config_reload", 1, nil)

	sessions := pm.sessionsTotal.WithLabelValues("STOP")
	assert.Equal(t, 2.0, testutil.ToFloat64(sessions))

	findings := pm.findingsTotal.WithLabelValues("STOP", "points_checker")
	assert.Equal(t, 3.0, testutil.ToFloat64(findings))

	// Unrecognized metric names land on the generic operation counter.
	ops := pm.operationCounter.WithLabelValues("config_reload")
	assert.Equal(t, 1.0, testutil.ToFloat64(ops))
}

func TestPrometheusMetrics_MissingLabelsFallBack(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordCounter("check_findings_total", 1, nil)

	findings := pm.findingsTotal.WithLabelValues("unknown", "unknown")
	assert.Equal(t, 1.0, testutil.ToFloat64(findings))
}

func TestNewPrometheusMetrics_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency("pipeline_run", time.Millisecond, nil)
	pm.RecordCounter("sessions_evaluated_total", 1, nil)
	pm.RecordCounter("check_findings_total", 1, nil)
	pm.RecordCounter("other_op", 1, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"stopsignal_run_duration_seconds",
		"stopsignal_sessions_evaluated_total",
		"stopsignal_check_findings_total",
		"stopsignal_operations_total",
	}, names)
}
