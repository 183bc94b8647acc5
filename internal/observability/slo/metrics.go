// Package slo tracks service level objectives for generation traffic.
//
// The router degrades rather than fails: a request only errors out once every
// candidate backend has been exhausted. The SLO gauges expose how often that
// happens and how long routed requests take, so alerting can fire before
// users notice.
package slo

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the generation routing service.
const (
	// SuccessRateSLO defines the target ratio of generation requests that
	// return text from some backend (99.5%)
	SuccessRateSLO = 0.995

	// FirstChoiceSLO defines the target ratio of requests served by the
	// first candidate tried, i.e. without any failover switch (95%)
	FirstChoiceSLO = 0.95
)

var (
	// SLOSuccessRate tracks the ratio of requests that produced text (0-1)
	SLOSuccessRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_generation_success_ratio",
			Help: "Ratio of generation requests served by some backend (0-1), target: 0.995",
		},
	)

	// SLOFirstChoiceRate tracks the ratio of requests served without a
	// failover switch (0-1)
	SLOFirstChoiceRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_generation_first_choice_ratio",
			Help: "Ratio of generation requests served by the first candidate (0-1), target: 0.95",
		},
	)
)

// Tracker accumulates per-request outcomes between periodic flushes.
// All methods are safe for concurrent use.
type Tracker struct {
	total       atomic.Int64
	succeeded   atomic.Int64
	firstChoice atomic.Int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record notes one finished generation request. firstChoice reports whether
// the winning backend was the first candidate tried.
func (t *Tracker) Record(succeeded, firstChoice bool) {
	t.total.Add(1)
	if succeeded {
		t.succeeded.Add(1)
	}
	if succeeded && firstChoice {
		t.firstChoice.Add(1)
	}
}

// Flush publishes the accumulated ratios to the SLO gauges and resets the
// counters. Call periodically, e.g. once a minute from the daemon's cron.
// With no traffic since the last flush the gauges are left untouched.
func (t *Tracker) Flush() {
	total := t.total.Swap(0)
	succeeded := t.succeeded.Swap(0)
	firstChoice := t.firstChoice.Swap(0)

	if total == 0 {
		return
	}

	SLOSuccessRate.Set(float64(succeeded) / float64(total))
	SLOFirstChoiceRate.Set(float64(firstChoice) / float64(total))
}
