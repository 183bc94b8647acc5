// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper
// functions for the logging patterns used throughout the routing service.
//
// Key features:
//   - JSON and text output formats
//   - Request ID propagation
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("router started", slog.String("addr", ":8080"))
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("processing generation request")
//	}
package logging
