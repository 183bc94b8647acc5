package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"genroute/internal/domain/entity"
	"genroute/internal/handler/http/requestid"
	"genroute/internal/normalize"
	"genroute/internal/observability/logging"
	"genroute/internal/observability/tracing"
	"genroute/internal/resilience/circuitbreaker"
	"genroute/internal/resilience/retry"
)

// Catalog supplies the ranked candidate snapshot. Implemented by
// catalog.Discovery.
type Catalog interface {
	Snapshot(ctx context.Context) *entity.CatalogSnapshot
}

// Generator performs one raw generation attempt against a named backend.
// Implemented by the provider adapters in internal/infra/provider.
type Generator interface {
	Generate(ctx context.Context, backendID string, req entity.GenerationRequest) (string, error)
}

// Config holds the routing policy knobs.
type Config struct {
	// MaxAttemptsPerBackend bounds how often a transiently failing backend
	// is retried before the walk moves on. Includes the first attempt.
	MaxAttemptsPerBackend int

	// RetryBaseDelay is the base wait between same-backend retries; the
	// actual wait grows linearly with the attempt number.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps the same-backend retry wait.
	RetryMaxDelay time.Duration

	// AttemptTimeout bounds one backend attempt.
	AttemptTimeout time.Duration
}

// DefaultConfig returns the routing policy used in production. The retry
// knobs mirror the generation retry preset so the two stay in step.
func DefaultConfig() Config {
	rc := retry.GenerationConfig()
	return Config{
		MaxAttemptsPerBackend: rc.MaxAttempts,
		RetryBaseDelay:        rc.BaseDelay,
		RetryMaxDelay:         rc.MaxDelay,
		AttemptTimeout:        60 * time.Second,
	}
}

// Router executes generation requests against a ranked candidate list with
// failover. A request walks the candidates in sticky-rotated order; each
// candidate gets a bounded number of attempts, and the walk moves on when a
// candidate's failure is not worth retrying. Router never returns an error:
// every path ends in a typed GenerationOutcome.
type Router struct {
	catalog   Catalog
	generator Generator
	state     *State
	cfg       Config
	breakers  *circuitbreaker.Registry
	metrics   MetricsRecorder
}

// Option configures a Router.
type Option func(*Router)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithBreakerRegistry sets the per-backend circuit breaker registry.
// Useful for sharing breakers with a health endpoint.
func WithBreakerRegistry(reg *circuitbreaker.Registry) Option {
	return func(r *Router) {
		r.breakers = reg
	}
}

// New creates a Router over the given catalog and generator.
func New(catalog Catalog, generator Generator, cfg Config, opts ...Option) *Router {
	def := DefaultConfig()
	if cfg.MaxAttemptsPerBackend <= 0 {
		cfg.MaxAttemptsPerBackend = def.MaxAttemptsPerBackend
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = def.RetryBaseDelay
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = def.RetryMaxDelay
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}

	r := &Router{
		catalog:   catalog,
		generator: generator,
		state:     NewState(),
		cfg:       cfg,
		breakers:  circuitbreaker.NewRegistry(nil),
		metrics:   NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State exposes the sticky-affinity state, mainly for tests and diagnostics.
func (r *Router) State() *State {
	return r.state
}

// Generate routes one generation request. The outcome is always typed;
// callers decide between the text and the failure via Succeeded().
//
// The walk over candidates distinguishes failure classes:
//   - quota exhausted or invalid configuration: switch immediately, the
//     backend will not recover within this request
//   - transient unavailability (timeouts, overload, 5xx): retry the same
//     backend with increasing backoff, then switch
//   - malformed response: switch, a backend that cannot produce the
//     requested shape now will not on the next attempt either
//   - anything else: switch conservatively
func (r *Router) Generate(ctx context.Context, req entity.GenerationRequest) entity.GenerationOutcome {
	ctx, span := tracing.GetTracer().Start(ctx, "router.generate")
	defer span.End()

	if requestid.FromContext(ctx) == "" {
		ctx = requestid.WithRequestID(ctx, uuid.New().String())
	}
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "rejecting invalid generation request",
			slog.String("error", err.Error()))
		r.metrics.RecordRequest("rejected")
		return entity.Failure(entity.KindInvalidConfiguration, err.Error())
	}

	snap := r.catalog.Snapshot(ctx)
	if snap.Len() == 0 {
		logger.ErrorContext(ctx, "no generation backends available")
		r.metrics.RecordRequest("no_candidates")
		return entity.Failure(entity.KindNoCandidatesAvailable, "")
	}

	rotated := r.state.Rotated(snap.Candidates)
	shape := normalize.ParseShape(req.Shape)

	for i, cand := range rotated {
		if ctx.Err() != nil {
			logger.WarnContext(ctx, "generation request canceled",
				slog.String("error", ctx.Err().Error()))
			r.metrics.RecordRequest("canceled")
			return entity.Failure(entity.KindUnclassified, "generation request canceled")
		}

		if r.breakers.Get(cand.ID).IsOpen() {
			logger.InfoContext(ctx, "skipping backend with open circuit",
				slog.String("backend", cand.ID))
			r.metrics.RecordAttempt(cand.ID, "breaker_open")
			continue
		}

		text, err := r.attempt(ctx, cand.ID, req, shape)
		if err == nil {
			r.state.MarkSuccess(indexOf(snap.Candidates, cand.ID))
			r.metrics.RecordRequest("success")
			logger.InfoContext(ctx, "generation served",
				slog.String("backend", cand.ID),
				slog.Int("output_chars", len(text)))
			span.SetAttributes(attribute.String("backend", cand.ID))
			out := entity.Success(text, cand.ID)
			out.Switched = i > 0
			return out
		}

		logger.WarnContext(ctx, "backend failed, switching to next candidate",
			slog.String("backend", cand.ID),
			slog.String("kind", entity.KindOf(err).String()),
			slog.String("error", err.Error()))
	}

	logger.ErrorContext(ctx, "all generation backends exhausted",
		slog.Int("candidates", len(rotated)))
	r.metrics.RecordRequest("exhausted")
	return entity.Failure(entity.KindAllBackendsExhausted, "")
}

// attempt runs up to MaxAttemptsPerBackend attempts against one backend.
// Only transient failures are retried; every other failure class is returned
// to the walk immediately so it can switch candidates.
func (r *Router) attempt(ctx context.Context, backendID string, req entity.GenerationRequest, shape normalize.Shape) (string, error) {
	var text string

	retryCfg := retry.Config{
		MaxAttempts:    r.cfg.MaxAttemptsPerBackend,
		BaseDelay:      r.cfg.RetryBaseDelay,
		MaxDelay:       r.cfg.RetryMaxDelay,
		JitterFraction: 0.1,
		Retryable: func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			return entity.KindOf(err) == entity.KindTransientUnavailable
		},
	}

	err := retry.WithBackoff(ctx, retryCfg, func() error {
		out, err := r.attemptOnce(ctx, backendID, req, shape)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	return text, err
}

// attemptOnce performs a single bounded attempt: breaker, timeout, backend
// call, then shape normalization. A timeout surfaces as context deadline
// exceeded, which classifies as transient.
func (r *Router) attemptOnce(ctx context.Context, backendID string, req entity.GenerationRequest, shape normalize.Shape) (string, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "router.attempt")
	defer span.End()
	span.SetAttributes(attribute.String("backend", backendID))

	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.AttemptTimeout)
	defer cancel()

	start := time.Now()
	result, err := r.breakers.Get(backendID).Execute(func() (interface{}, error) {
		raw, err := r.generator.Generate(attemptCtx, backendID, req)
		if err != nil {
			return nil, err
		}
		return normalize.Normalize(raw, shape, backendID)
	})
	r.metrics.RecordAttemptDuration(backendID, time.Since(start))

	if err != nil {
		r.metrics.RecordAttempt(backendID, entity.KindOf(err).String())
		return "", err
	}

	r.metrics.RecordAttempt(backendID, "success")
	return result.(string), nil
}

// indexOf finds a candidate's position in the canonical ranked order.
func indexOf(candidates []entity.BackendCandidate, id string) int {
	for i, c := range candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}
