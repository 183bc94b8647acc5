package catalog

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder records catalog discovery metrics. The interface keeps the
// discovery logic testable without a Prometheus registry and allows swapping
// the metrics backend.
type MetricsRecorder interface {
	// RecordRefresh counts one refresh attempt with its result
	// ("success", "empty", or "error").
	RecordRefresh(result string)

	// RecordCatalogSize records the number of usable candidates in the
	// current snapshot.
	RecordCatalogSize(size int)
}

// NoopMetrics discards all recordings.
type NoopMetrics struct{}

// NewNoopMetrics creates a recorder that discards everything.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

// RecordRefresh implements MetricsRecorder.
func (*NoopMetrics) RecordRefresh(string) {}

// RecordCatalogSize implements MetricsRecorder.
func (*NoopMetrics) RecordCatalogSize(int) {}

// PrometheusMetrics implements MetricsRecorder using Prometheus collectors.
type PrometheusMetrics struct {
	refreshCounter *prometheus.CounterVec
	sizeGauge      prometheus.Gauge
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
			refreshCounter: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "catalog_refresh_total",
				Help: "Total catalog refresh attempts by result",
			}, []string{"result"}),
			sizeGauge: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "catalog_candidates",
				Help: "Number of usable backend candidates in the current snapshot",
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordRefresh implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRefresh(result string) {
	p.refreshCounter.WithLabelValues(result).Inc()
}

// RecordCatalogSize implements MetricsRecorder.
func (p *PrometheusMetrics) RecordCatalogSize(size int) {
	p.sizeGauge.Set(float64(size))
}
