// Package metrics provides the centralized Prometheus metrics for the
// routing service's HTTP surface. Pipeline-level metrics (catalog refreshes,
// backend attempts) live next to the code that records them.
package metrics
