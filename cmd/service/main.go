// Package main is the entry point for the daily-stoic HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/email"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/scheduler"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/store/redisstats"
	"github.com/jsamuelsen/daily-stoic/internal/app"
	"github.com/jsamuelsen/daily-stoic/internal/bootstrap"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
	"github.com/jsamuelsen/daily-stoic/internal/platform/metrics"
	"github.com/jsamuelsen/daily-stoic/internal/platform/ratelimit"
	"github.com/jsamuelsen/daily-stoic/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // composition root
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Configuration (fail fast)
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	// 2. Logging
	logger := bootstrap.NewLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Driver),
	)

	// 3. Telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)
	healthRegistry := ports.NewHealthRegistry()

	// 4. Subscriber store
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			logger.Error("closing subscriber store", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// 5. Rate limit stats (optional)
	var recorder ports.RateLimitRecorder = ports.NopRateLimitRecorder{}

	if cfg.RateLimit.Stats.Enabled {
		stats := redisstats.NewFromConfig(cfg.RateLimit.Stats)
		defer func() { _ = stats.Close() }()

		if err := healthRegistry.RegisterOptional(stats); err != nil {
			return fmt.Errorf("registering rate limit stats health check: %w", err)
		}

		recorder = stats
	}

	// 6. Email gateway
	gateway, err := bootstrap.NewGateway(cfg, logger)
	if err != nil {
		return err
	}

	if err := healthRegistry.Register(gateway); err != nil {
		return fmt.Errorf("registering email gateway health check: %w", err)
	}

	// 7. Application services
	subscriptions := app.NewSubscriptionService(app.SubscriptionServiceConfig{
		Store:   store,
		Metrics: m,
		Logger:  logger,
	})

	dispatcher := app.NewDispatchService(app.DispatchServiceConfig{
		Store:       store,
		Gateway:     gateway,
		Renderer:    email.MustNewRenderer(),
		AppURL:      cfg.Dispatch.AppURL,
		Concurrency: cfg.Dispatch.Concurrency,
		Limiter:     app.NewSendLimiter(cfg.Dispatch.SendRate, cfg.Dispatch.Burst),
		Metrics:     m,
		Logger:      logger,
	})

	// 8. Rate limiters, one per scope, swept in the background
	subscribeLimit, err := newRateLimit(ctx, "subscribe", cfg.RateLimit.SubscribeLimit, cfg.RateLimit, recorder, m, logger)
	if err != nil {
		return err
	}

	unsubscribeLimit, err := newRateLimit(ctx, "unsubscribe", cfg.RateLimit.UnsubscribeLimit, cfg.RateLimit, recorder, m, logger)
	if err != nil {
		return err
	}

	// 9. HTTP server
	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:              logger,
		AppConfig:           &cfg.App,
		HealthHandler:       handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		SubscriptionHandler: handlers.NewSubscriptionHandler(subscriptions),
		SubscribeLimit:      subscribeLimit,
		UnsubscribeLimit:    unsubscribeLimit,
		Timeout:             cfg.Server.RequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	// 10. Daily dispatch
	var sched *scheduler.Scheduler

	if cfg.Dispatch.Enabled {
		sched, err = scheduler.New(dispatcher, cfg.Dispatch, logger)
		if err != nil {
			_ = server.Shutdown(context.WithoutCancel(ctx))
			return fmt.Errorf("creating scheduler: %w", err)
		}

		sched.Start(ctx)
	} else {
		logger.Info("daily dispatch disabled")
	}

	// 11. Wait for a signal or a server failure, then drain
	runErr := waitForShutdown(ctx, logger, serverErr)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			logger.Warn("dispatch did not finish before shutdown", slog.Any("error", err))
		}
	}

	logger.Info("shutdown complete")

	return runErr
}

// newRateLimit builds the limiter for scope, starts its janitor until ctx
// is done and returns the gin middleware guarding the scope's routes.
func newRateLimit(
	ctx context.Context,
	scope string,
	limit int,
	cfg config.RateLimitConfig,
	recorder ports.RateLimitRecorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) (gin.HandlerFunc, error) {
	limiter, err := ratelimit.New(ratelimit.Config{
		Limit:   limit,
		Window:  cfg.Window,
		MaxKeys: cfg.MaxKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s rate limiter: %w", scope, err)
	}

	limiter.StartJanitor(ctx, cfg.SweepInterval, func(removed int) {
		m.ObserveSweep(scope, removed)
	})

	return middleware.RateLimit(middleware.RateLimitConfig{
		Scope:    scope,
		Limiter:  limiter,
		Recorder: recorder,
		Metrics:  m,
		Logger:   logger,
	}), nil
}

// waitForShutdown blocks until ctx is cancelled by a signal or the server
// fails.
func waitForShutdown(ctx context.Context, logger *slog.Logger, serverErr <-chan error) error {
	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case <-ctx.Done():
		logger.Info("received shutdown signal", slog.Any("cause", context.Cause(ctx)))
		return nil
	}
}
