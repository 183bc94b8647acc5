// Package observability groups the cross-cutting observability infrastructure
// for the routing service: structured logging, Prometheus metrics, and
// OpenTelemetry tracing.
//
// Subpackages:
//   - logging: slog-based structured logging with request ID propagation
//   - metrics: Prometheus registry for the HTTP surface
//   - slo: service level objective tracking for generation traffic
//   - tracing: OpenTelemetry span helpers and HTTP middleware
package observability
