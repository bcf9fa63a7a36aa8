package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
	"github.com/jsamuelsen/daily-stoic/internal/platform/metrics"
	"github.com/jsamuelsen/daily-stoic/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// DefaultDispatchConcurrency caps in-flight sends when none is configured.
const DefaultDispatchConcurrency = 10

// DispatchService selects the quote of the day and fans it out to every
// active subscriber. A failed send is recorded on the report and never
// aborts the rest of the batch.
type DispatchService struct {
	store       ports.SubscriberStore
	gateway     ports.NotificationGateway
	renderer    ports.MessageRenderer
	catalog     *domain.Catalog
	appURL      string
	concurrency int
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// DispatchServiceConfig contains the dependencies of DispatchService.
type DispatchServiceConfig struct {
	Store    ports.SubscriberStore
	Gateway  ports.NotificationGateway
	Renderer ports.MessageRenderer

	// Catalog defaults to domain.DefaultCatalog.
	Catalog *domain.Catalog

	// AppURL is the public base URL used for unsubscribe links.
	AppURL string

	// Concurrency caps in-flight sends. Defaults to DefaultDispatchConcurrency.
	Concurrency int

	// Limiter paces sends when set. Nil sends as fast as Concurrency allows.
	Limiter *rate.Limiter

	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewDispatchService creates a dispatch service. It panics when Store,
// Gateway or Renderer is nil.
func NewDispatchService(cfg DispatchServiceConfig) *DispatchService {
	if cfg.Store == nil || cfg.Gateway == nil || cfg.Renderer == nil {
		panic("app: DispatchService requires a SubscriberStore, NotificationGateway and MessageRenderer")
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultDispatchConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &DispatchService{
		store:       cfg.Store,
		gateway:     cfg.Gateway,
		renderer:    cfg.Renderer,
		catalog:     catalog,
		appURL:      strings.TrimRight(cfg.AppURL, "/"),
		concurrency: concurrency,
		limiter:     cfg.Limiter,
		metrics:     cfg.Metrics,
		logger:      logger.With(slog.String("component", "app.DispatchService")),
		now:         now,
	}
}

// NewSendLimiter builds the token bucket used to pace sends. A non-positive
// perSecond disables pacing and returns nil.
func NewSendLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}

// RunDailyDispatch sends the quote selected for date to every active
// subscriber and reports the outcome.
//
// A failure to list subscribers fails the run before any send and is
// returned alongside the report. Per-recipient failures only show up in
// the report.
func (s *DispatchService) RunDailyDispatch(ctx context.Context, date time.Time) (*domain.DispatchReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "dispatch.run",
		oteltrace.WithAttributes(attribute.String("dispatch.date", date.Format(time.DateOnly))),
	)
	defer span.End()

	logger := logging.FromContextOr(ctx, s.logger)
	start := s.now()

	report := &domain.DispatchReport{
		State:     domain.DispatchIdle,
		Date:      domain.DateLabel(date),
		StartedAt: start,
	}

	defer func() {
		report.Duration = s.now().Sub(start)
		s.metrics.ObserveDispatch(report)
		span.SetAttributes(
			attribute.String("dispatch.state", string(report.State)),
			attribute.Int("dispatch.total", report.Total),
			attribute.Int("dispatch.succeeded", report.Succeeded),
			attribute.Int("dispatch.failed", report.Failed()),
		)
	}()

	report.State = domain.DispatchSelecting
	quote := s.catalog.ForDate(date)
	report.Quote, report.Author = quote.Text, quote.Author

	report.State = domain.DispatchFetching

	subscribers, err := s.store.ListSubscribed(ctx)
	if err != nil {
		report.State = domain.DispatchFailed
		report.Reason = err.Error()

		span.RecordError(err)
		span.SetStatus(codes.Error, "listing subscribers failed")
		logger.ErrorContext(ctx, "dispatch aborted, cannot list subscribers", slog.Any("error", err))

		return report, fmt.Errorf("listing subscribers: %w", err)
	}

	if len(subscribers) == 0 {
		report.State = domain.DispatchAggregated
		report.Reason = domain.ReasonNoSubscribers
		logger.WarnContext(ctx, "no active subscribers, nothing to send")

		return report, nil
	}

	report.Total = len(subscribers)
	report.State = domain.DispatchFanningOut

	logger.InfoContext(ctx, "dispatching quote",
		slog.Int("subscribers", report.Total),
		slog.String("author", quote.Author),
	)

	jobs := make([]domain.DispatchJob, len(subscribers))
	sends := make([]func(context.Context) (string, error), len(subscribers))

	for i, sub := range subscribers {
		jobs[i] = domain.DispatchJob{
			To:             sub.Email,
			Quote:          quote.Text,
			Author:         quote.Author,
			DateLabel:      report.Date,
			UnsubscribeURL: s.unsubscribeURL(sub.UnsubscribeToken),
		}

		job := jobs[i]
		sends[i] = func(ctx context.Context) (string, error) {
			return s.deliver(ctx, job)
		}
	}

	results := ParallelPartialLimit(ctx, s.concurrency, sends...)

	for i, r := range results {
		if r.Err != nil {
			report.Failures = append(report.Failures, domain.DispatchFailure{
				Email: jobs[i].To,
				Error: r.Err.Error(),
			})
			logger.WarnContext(ctx, "send failed",
				slog.String("email", jobs[i].To),
				slog.Any("error", r.Err),
			)

			continue
		}

		report.Succeeded++
		report.MessageIDs = append(report.MessageIDs, r.Value)
	}

	report.Sent = report.Succeeded > 0
	report.State = domain.DispatchAggregated

	logger.InfoContext(ctx, "dispatch finished",
		slog.Int("total", report.Total),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed()),
	)

	return report, nil
}

// SendTestEmail sends the quote for date to a single address, without an
// unsubscribe link, and returns the provider message id.
func (s *DispatchService) SendTestEmail(ctx context.Context, to string, date time.Time) (string, error) {
	to = domain.NormalizeEmail(to)
	if err := domain.ValidateEmail(to); err != nil {
		return "", err
	}

	quote := s.catalog.ForDate(date)

	id, err := s.deliver(ctx, domain.DispatchJob{
		To:        to,
		Quote:     quote.Text,
		Author:    quote.Author,
		DateLabel: domain.DateLabel(date),
	})
	if err != nil {
		return "", err
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "test email sent",
		slog.String("email", to),
		slog.String("message_id", id),
	)

	return id, nil
}

func (s *DispatchService) deliver(ctx context.Context, job domain.DispatchJob) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}

	msg, err := s.renderer.Render(job)
	if err != nil {
		return "", fmt.Errorf("rendering email: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for send slot: %w", err)
		}
	}

	id, err := s.gateway.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("sending email: %w", err)
	}

	return id, nil
}

func (s *DispatchService) unsubscribeURL(token string) string {
	if s.appURL == "" || token == "" {
		return ""
	}

	return s.appURL + "/unsubscribe?token=" + url.QueryEscape(token)
}
