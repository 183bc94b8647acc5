// Package tracing provides OpenTelemetry tracing integration.
//
// The routing pipeline creates spans around catalog refreshes and individual
// generation attempts so a single request can be followed across backend
// switches. The HTTP middleware extracts W3C Trace Context headers from
// incoming requests and echoes the trace ID back to the caller.
//
// Example usage:
//
//	func (r *Router) Generate(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "router.generate")
//	    defer span.End()
//	    // ... walk the candidate list ...
//	}
package tracing
