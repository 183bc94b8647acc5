package router

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()

	// Must be safe to call with anything.
	m.RecordRequest("success")
	m.RecordAttempt("model-a", "quota_exhausted")
	m.RecordAttemptDuration("model-a", time.Second)
}

func TestPrometheusMetrics_Singleton(t *testing.T) {
	first := NewPrometheusMetrics()
	second := NewPrometheusMetrics()

	assert.Same(t, first, second)
}

func TestPrometheusMetrics_RecordsCounters(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordRequest("success")
	m.RecordAttempt("model-2.0-pro", "success")
	m.RecordAttemptDuration("model-2.0-pro", 250*time.Millisecond)

	counter, err := m.attemptCounter.GetMetricWithLabelValues("model-2.0-pro", "success")
	require.NoError(t, err)

	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	assert.GreaterOrEqual(t, metric.GetCounter().GetValue(), 1.0)
}
