// Package main runs the generation routing daemon. It discovers the upstream
// backend catalog, keeps it warm on a schedule, and serves the generation
// endpoint with failover across ranked candidates.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"genroute/internal/catalog"
	"genroute/internal/config"
	handler "genroute/internal/handler/http"
	"genroute/internal/handler/http/requestid"
	"genroute/internal/infra/provider"
	"genroute/internal/observability/logging"
	"genroute/internal/observability/slo"
	"genroute/internal/observability/tracing"
	"genroute/internal/router"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadRouterConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	prov, err := provider.New(cfg.Provider, cfg.APIKey)
	if err != nil {
		logger.Error("failed to create provider", slog.Any("error", err))
		os.Exit(1)
	}

	excluded := catalog.DefaultExcludedFamilies()
	if cfg.CatalogFilterPath != "" {
		filter, err := config.LoadFilterConfig(cfg.CatalogFilterPath)
		if err != nil {
			logger.Error("failed to load catalog filter", slog.Any("error", err))
			os.Exit(1)
		}
		excluded = filter.Catalog.ExcludedFamilies
		logger.Info("using catalog filter file",
			slog.String("path", cfg.CatalogFilterPath),
			slog.Int("families", len(excluded)))
	}

	discovery := catalog.New(prov, catalog.Config{
		TTL:              cfg.CatalogTTL,
		ExcludedFamilies: excluded,
	}, catalog.WithMetrics(catalog.NewPrometheusMetrics()))

	routerCfg := router.Config{
		MaxAttemptsPerBackend: cfg.MaxAttemptsPerBackend,
		RetryBaseDelay:        cfg.RetryBaseDelay,
		AttemptTimeout:        cfg.AttemptTimeout,
	}
	rt := router.New(discovery, prov, routerCfg,
		router.WithMetrics(router.NewPrometheusMetrics()))

	tracker := slo.NewTracker()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the catalog before accepting traffic; a failure here still yields
	// the safe default, so startup proceeds either way.
	warmCtx, warmCancel := context.WithTimeout(ctx, 30*time.Second)
	snap := discovery.Refresh(warmCtx)
	warmCancel()
	logger.Info("initial backend catalog ready",
		slog.String("provider", prov.Name()),
		slog.Int("candidates", snap.Len()))

	scheduler := startScheduler(ctx, logger, cfg, discovery, tracker)
	defer scheduler.Stop()

	metricsSrv := startMetricsServer(ctx, logger, cfg.MetricsAddr)
	defer shutdownServer(logger, metricsSrv, "metrics")

	mux := http.NewServeMux()
	mux.Handle("/api/generate", handler.NewGenerateHandler(rt, tracker))
	mux.Handle("/healthz", &handler.HealthHandler{Catalog: discovery, Version: version})

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: handler.Chain(mux,
			handler.Recovery(logger),
			requestid.Middleware,
			tracing.Middleware,
			handler.Logging(logger),
			handler.Metrics(),
			handler.Timeout(cfg.RequestTimeout),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("router daemon listening",
			slog.String("addr", cfg.ListenAddr),
			slog.String("provider", cfg.Provider),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownServer(logger, srv, "api")
}

// startScheduler runs the periodic jobs: catalog warm refresh and SLO gauge
// flush. Both are idempotent, so overlapping or missed runs are harmless.
func startScheduler(ctx context.Context, logger *slog.Logger, cfg *config.RouterConfig, discovery *catalog.Discovery, tracker *slo.Tracker) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(cfg.WarmRefreshSchedule, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		snap := discovery.Refresh(refreshCtx)
		logger.Info("warm catalog refresh completed",
			slog.Int("candidates", snap.Len()))
	}); err != nil {
		logger.Error("invalid warm refresh schedule",
			slog.String("schedule", cfg.WarmRefreshSchedule),
			slog.Any("error", err))
		os.Exit(1)
	}

	if _, err := c.AddFunc("@every 1m", tracker.Flush); err != nil {
		logger.Error("failed to schedule SLO flush", slog.Any("error", err))
		os.Exit(1)
	}

	c.Start()
	return c
}

// shutdownServer gracefully stops an HTTP server, allowing in-flight
// requests up to 10 seconds to complete.
func shutdownServer(logger *slog.Logger, srv *http.Server, name string) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed",
			slog.String("server", name),
			slog.Any("error", err))
	}
}
