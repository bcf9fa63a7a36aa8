// Package scheduler triggers the daily dispatch on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// ErrNotStarted is returned by Stop before Start.
var ErrNotStarted = errors.New("scheduler not started")

// parser accepts five-field expressions and descriptors such as "@daily".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs ports.Dispatcher.RunDailyDispatch on a fixed schedule.
// A run still in progress when the next one fires causes that firing to
// be skipped.
type Scheduler struct {
	dispatcher ports.Dispatcher
	expr       string
	schedule   cron.Schedule
	loc        *time.Location
	runTimeout time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	parent context.Context
}

// New validates cfg.Schedule and cfg.Timezone.
func New(dispatcher ports.Dispatcher, cfg config.DispatchConfig, logger *slog.Logger) (*Scheduler, error) {
	if dispatcher == nil {
		return nil, errors.New("scheduler: dispatcher is required")
	}

	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, domain.NewConfigurationError("dispatch.schedule", err.Error())
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, domain.NewConfigurationError("dispatch.timezone", err.Error())
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		dispatcher: dispatcher,
		expr:       cfg.Schedule,
		schedule:   schedule,
		loc:        loc,
		runTimeout: cfg.RunTimeout,
		logger:     logger.With(slog.String("component", "scheduler")),
		now:        time.Now,
	}, nil
}

// Start begins firing. ctx is the parent of every run's context; cancelling
// it aborts an in-progress run but does not stop the schedule.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return
	}

	cl := cronLogger{logger: s.logger}

	s.parent = ctx
	s.cron = cron.New(
		cron.WithParser(parser),
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		_, _ = s.RunOnce(s.parent)
	}))
	s.cron.Start()

	s.logger.InfoContext(ctx, "dispatch scheduled",
		slog.String("schedule", s.expr),
		slog.String("timezone", s.loc.String()),
		slog.Time("next_run", s.Next()),
	)
}

// Stop halts the schedule and waits for a running dispatch to return, or
// for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return ErrNotStarted
	}

	select {
	case <-c.Stop().Done():
		s.logger.InfoContext(ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for dispatch run: %w", ctx.Err())
	}
}

// Next reports the next firing time in the scheduler's timezone.
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(s.now().In(s.loc))
}

// RunOnce performs one dispatch for the current date in the scheduler's
// timezone, bounded by the configured run timeout.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.DispatchReport, error) {
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	date := s.now().In(s.loc)

	s.logger.InfoContext(ctx, "dispatch run starting", slog.String("date", date.Format(time.DateOnly)))

	report, err := s.dispatcher.RunDailyDispatch(ctx, date)
	if err != nil {
		s.logger.ErrorContext(ctx, "dispatch run failed", slog.Any("error", err))
		return report, err
	}

	if report != nil {
		s.logger.InfoContext(ctx, "dispatch run finished",
			slog.String("state", string(report.State)),
			slog.Int("subscribers", report.Total),
			slog.Int("succeeded", report.Succeeded),
			slog.Int("failed", report.Failed()),
			slog.Duration("duration", report.Duration),
		)
	}

	return report, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
