// Package catalog discovers the text-generation backends currently offered
// by an upstream provider, ranks them, and caches the result with a TTL.
// Snapshots are immutable and replaced wholesale; the cache is safe for
// concurrent use.
package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"genroute/internal/domain/entity"
	"genroute/internal/observability/tracing"
	"genroute/internal/ranking"
	"genroute/internal/resilience/circuitbreaker"
	"genroute/internal/resilience/retry"
)

// BackendInfo is one raw entry from the upstream listing endpoint.
type BackendInfo struct {
	// ID is the backend identifier as reported by the upstream.
	ID string

	// SupportsGeneration reports whether the backend accepts free-form
	// text-generation requests.
	SupportsGeneration bool
}

// Lister lists the backends currently offered by an upstream service.
// Implemented by the provider adapters in internal/infra/provider.
type Lister interface {
	// ListBackends fetches the full upstream backend list.
	ListBackends(ctx context.Context) ([]BackendInfo, error)

	// SafeDefault returns the identifier of a well-known, historically
	// low-quota-risk backend used when discovery fails or yields nothing.
	SafeDefault() string
}

// Config holds discovery settings.
type Config struct {
	// TTL is how long a snapshot is served before a refresh is triggered.
	TTL time.Duration

	// ExcludedFamilies lists identifier substrings that mark families unfit
	// for generation routing (embedding-only, vision-only, deprecated tiers).
	ExcludedFamilies []string
}

// DefaultExcludedFamilies covers the special-purpose families the upstream
// catalogs intermix with generation models.
func DefaultExcludedFamilies() []string {
	return []string{
		"embedding",
		"embed",
		"whisper",
		"tts",
		"audio",
		"dall-e",
		"image",
		"vision-only",
		"moderation",
		"realtime",
		"transcribe",
		"deprecated",
	}
}

// Discovery caches a ranked snapshot of usable backend candidates.
type Discovery struct {
	lister  Lister
	cfg     Config
	metrics MetricsRecorder
	breaker *circuitbreaker.CircuitBreaker

	snapshot atomic.Pointer[entity.CatalogSnapshot]
	group    singleflight.Group

	// now is a test seam for TTL expiry.
	now func() time.Time
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(d *Discovery) {
		d.metrics = m
	}
}

// New creates a Discovery over the given lister.
func New(lister Lister, cfg Config, opts ...Option) *Discovery {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.ExcludedFamilies == nil {
		cfg.ExcludedFamilies = DefaultExcludedFamilies()
	}

	d := &Discovery{
		lister:  lister,
		cfg:     cfg,
		metrics: NewNoopMetrics(),
		breaker: circuitbreaker.New(circuitbreaker.ListingConfig()),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Snapshot returns the current catalog snapshot, refreshing synchronously
// when the TTL has expired. Concurrent callers during the TTL window share
// the cached snapshot; concurrent refreshes are collapsed into one upstream
// call. The returned snapshot always contains at least one candidate.
func (d *Discovery) Snapshot(ctx context.Context) *entity.CatalogSnapshot {
	if snap := d.snapshot.Load(); snap != nil && d.now().Sub(snap.FetchedAt) < d.cfg.TTL {
		return snap
	}

	result, _, _ := d.group.Do("refresh", func() (interface{}, error) {
		return d.refresh(ctx), nil
	})
	return result.(*entity.CatalogSnapshot)
}

// Refresh forces a refresh regardless of TTL and returns the new snapshot.
// Used by the daemon's periodic warm job; refreshing is idempotent.
func (d *Discovery) Refresh(ctx context.Context) *entity.CatalogSnapshot {
	result, _, _ := d.group.Do("refresh", func() (interface{}, error) {
		return d.refresh(ctx), nil
	})
	return result.(*entity.CatalogSnapshot)
}

// refresh fetches, filters, ranks, and stores a new snapshot. On upstream
// failure the previous candidate set is retained if one exists; otherwise the
// safe default is used, so the router always has something to try.
func (d *Discovery) refresh(ctx context.Context) *entity.CatalogSnapshot {
	ctx, span := tracing.GetTracer().Start(ctx, "catalog.refresh")
	defer span.End()

	start := d.now()

	infos, err := d.listBackends(ctx)
	if err != nil {
		slog.WarnContext(ctx, "backend discovery failed",
			slog.String("error", err.Error()))
		d.metrics.RecordRefresh("error")
		return d.fallbackSnapshot(ctx)
	}

	candidates := d.buildCandidates(infos)
	if len(candidates) == 0 {
		slog.WarnContext(ctx, "backend discovery yielded no usable candidates",
			slog.Int("listed", len(infos)))
		d.metrics.RecordRefresh("empty")
		return d.fallbackSnapshot(ctx)
	}

	snap := &entity.CatalogSnapshot{
		Candidates: candidates,
		FetchedAt:  d.now(),
	}
	d.snapshot.Store(snap)

	d.metrics.RecordRefresh("success")
	d.metrics.RecordCatalogSize(len(candidates))

	slog.InfoContext(ctx, "backend catalog refreshed",
		slog.Int("candidates", len(candidates)),
		slog.String("top", candidates[0].ID),
		slog.Duration("duration", d.now().Sub(start)))

	return snap
}

// listBackends calls the upstream listing endpoint behind the listing breaker,
// retrying transient failures once. Non-transient failures abort immediately;
// the caller handles fallback.
func (d *Discovery) listBackends(ctx context.Context) ([]BackendInfo, error) {
	var infos []BackendInfo
	err := retry.WithBackoff(ctx, retry.ListingConfig(), func() error {
		result, err := d.breaker.Execute(func() (interface{}, error) {
			return d.lister.ListBackends(ctx)
		})
		if err != nil {
			return err
		}
		infos = result.([]BackendInfo)
		return nil
	})
	return infos, err
}

// buildCandidates filters, deduplicates, and rank-sorts the raw listing.
func (d *Discovery) buildCandidates(infos []BackendInfo) []entity.BackendCandidate {
	seen := make(map[string]struct{}, len(infos))
	candidates := make([]entity.BackendCandidate, 0, len(infos))

	for _, info := range infos {
		if !info.SupportsGeneration {
			continue
		}
		if excluded(info.ID, d.cfg.ExcludedFamilies) {
			continue
		}
		if _, ok := seen[info.ID]; ok {
			continue
		}
		seen[info.ID] = struct{}{}
		candidates = append(candidates, ParseCandidate(info.ID))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return ranking.Less(candidates[i].ID, candidates[j].ID)
	})

	return candidates
}

// fallbackSnapshot keeps serving the previous candidate set when one exists,
// refreshed with a new timestamp so callers are not stampeded into retrying;
// with no prior snapshot it falls back to the single safe-default candidate.
func (d *Discovery) fallbackSnapshot(ctx context.Context) *entity.CatalogSnapshot {
	if prev := d.snapshot.Load(); prev != nil && len(prev.Candidates) > 0 {
		snap := &entity.CatalogSnapshot{
			Candidates: prev.Candidates,
			FetchedAt:  d.now(),
		}
		d.snapshot.Store(snap)
		slog.InfoContext(ctx, "retaining previous backend catalog",
			slog.Int("candidates", len(snap.Candidates)))
		return snap
	}

	id := d.lister.SafeDefault()
	snap := &entity.CatalogSnapshot{
		Candidates: []entity.BackendCandidate{ParseCandidate(id)},
		FetchedAt:  d.now(),
	}
	d.snapshot.Store(snap)
	d.metrics.RecordCatalogSize(1)

	slog.InfoContext(ctx, "using safe default backend",
		slog.String("backend", id))
	return snap
}
