package router

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder records routing metrics. The interface keeps the executor
// testable without a Prometheus registry and allows swapping the metrics
// backend.
type MetricsRecorder interface {
	// RecordRequest counts one finished routing request with its result
	// ("success", "exhausted", or "rejected").
	RecordRequest(result string)

	// RecordAttempt counts one backend attempt with its outcome: "success"
	// or the failure kind label.
	RecordAttempt(backendID, outcome string)

	// RecordAttemptDuration records how long one backend attempt took.
	RecordAttemptDuration(backendID string, duration time.Duration)
}

// NoopMetrics discards all recordings.
type NoopMetrics struct{}

// NewNoopMetrics creates a recorder that discards everything.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

// RecordRequest implements MetricsRecorder.
func (*NoopMetrics) RecordRequest(string) {}

// RecordAttempt implements MetricsRecorder.
func (*NoopMetrics) RecordAttempt(string, string) {}

// RecordAttemptDuration implements MetricsRecorder.
func (*NoopMetrics) RecordAttemptDuration(string, time.Duration) {}

// PrometheusMetrics implements MetricsRecorder using Prometheus collectors.
type PrometheusMetrics struct {
	requestCounter  *prometheus.CounterVec
	attemptCounter  *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics creates the production metrics recorder.
// Uses a singleton to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requestCounter: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "generation_requests_total",
				Help: "Total routed generation requests by result",
			}, []string{"result"}),
			attemptCounter: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "backend_attempts_total",
				Help: "Total generation attempts by backend and outcome",
			}, []string{"backend", "outcome"}),
			attemptDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "backend_attempt_duration_seconds",
				Help:    "Duration of individual backend attempts",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			}, []string{"backend"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(result string) {
	p.requestCounter.WithLabelValues(result).Inc()
}

// RecordAttempt implements MetricsRecorder.
func (p *PrometheusMetrics) RecordAttempt(backendID, outcome string) {
	p.attemptCounter.WithLabelValues(backendID, outcome).Inc()
}

// RecordAttemptDuration implements MetricsRecorder.
func (p *PrometheusMetrics) RecordAttemptDuration(backendID string, duration time.Duration) {
	p.attemptDuration.WithLabelValues(backendID).Observe(duration.Seconds())
}
