// Package main runs the daily dispatch once and prints the report. It is
// meant for external schedulers and for checking email delivery by hand.
//
// Usage:
//
//	dispatch                      # send today's quote to every subscriber
//	dispatch -test-to me@host     # send today's quote to one address only
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/email"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/scheduler"
	"github.com/jsamuelsen/daily-stoic/internal/app"
	"github.com/jsamuelsen/daily-stoic/internal/bootstrap"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
	"github.com/jsamuelsen/daily-stoic/internal/platform/metrics"
)

func main() {
	testTo := flag.String("test-to", "", "send today's quote only to this address")
	flag.Parse()

	if err := run(*testTo, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(testTo string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger := bootstrap.NewLogger(cfg)
	logging.SetDefault(logger)

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			logger.Error("closing subscriber store", slog.Any("error", closeErr))
		}
	}()

	gateway, err := bootstrap.NewGateway(cfg, logger)
	if err != nil {
		return err
	}

	dispatcher := app.NewDispatchService(app.DispatchServiceConfig{
		Store:       store,
		Gateway:     gateway,
		Renderer:    email.MustNewRenderer(),
		AppURL:      cfg.Dispatch.AppURL,
		Concurrency: cfg.Dispatch.Concurrency,
		Limiter:     app.NewSendLimiter(cfg.Dispatch.SendRate, cfg.Dispatch.Burst),
		Metrics:     metrics.New(prometheus.NewRegistry()),
		Logger:      logger,
	})

	sched, err := scheduler.New(dispatcher, cfg.Dispatch, logger)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if testTo != "" {
		loc, err := time.LoadLocation(cfg.Dispatch.Timezone)
		if err != nil {
			return fmt.Errorf("loading dispatch timezone: %w", err)
		}

		id, err := dispatcher.SendTestEmail(ctx, testTo, time.Now().In(loc))
		if err != nil {
			return fmt.Errorf("sending test email: %w", err)
		}

		return enc.Encode(map[string]string{"to": testTo, "messageId": id})
	}

	report, runErr := sched.RunOnce(ctx)
	if report != nil {
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if report != nil && report.Total > 0 && report.Succeeded == 0 {
		return fmt.Errorf("dispatch failed for all %d subscribers", report.Total)
	}

	return nil
}
