// Package app contains application services that orchestrate use cases.
//
// Services depend on port interfaces only. HTTP, cron and storage specifics
// stay in the adapters; the rules about who may (re)subscribe live here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
	"github.com/jsamuelsen/daily-stoic/internal/platform/metrics"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// storeService names the subscriber store in UnavailableErrors.
const storeService = "subscriber-store"

// Operation labels for logs and metrics.
const (
	opSubscribe          = "subscribe"
	opUnsubscribe        = "unsubscribe"
	opUnsubscribeByToken = "unsubscribe_token"
)

// maxTokenAttempts bounds regeneration when a fresh token collides with the
// previous one.
const maxTokenAttempts = 3

// SubscriptionService owns the subscriber state machine:
//
//	absent --subscribe--> active --unsubscribe--> inactive --subscribe--> active
//
// Records are never deleted.
type SubscriptionService struct {
	store    ports.SubscriberStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	newToken func() (string, error)
}

// SubscriptionServiceConfig contains the dependencies of SubscriptionService.
// Store is required; everything else has a default.
type SubscriptionServiceConfig struct {
	Store   ports.SubscriberStore
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// NewToken defaults to a random UUIDv4.
	NewToken func() (string, error)
}

// NewSubscriptionService creates a subscription service. It panics when
// Store is nil.
func NewSubscriptionService(cfg SubscriptionServiceConfig) *SubscriptionService {
	if cfg.Store == nil {
		panic("app: SubscriptionService requires a SubscriberStore")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newToken := cfg.NewToken
	if newToken == nil {
		newToken = randomToken
	}

	return &SubscriptionService{
		store:    cfg.Store,
		metrics:  cfg.Metrics,
		logger:   logger.With(slog.String("component", "app.SubscriptionService")),
		now:      now,
		newToken: newToken,
	}
}

// Subscribe registers email, or reactivates it when previously unsubscribed.
// An already active subscriber gets a conflict and the record is untouched.
func (s *SubscriptionService) Subscribe(ctx context.Context, email, timezone string) (outcome domain.Outcome, err error) {
	logger := s.loggerFrom(ctx).With(slog.String("operation", opSubscribe))
	defer func() { s.observe(opSubscribe, outcome, err) }()

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return "", err
	}

	existing, err := s.store.FindByEmail(ctx, email)

	switch {
	case domain.IsNotFound(err):
		return s.create(ctx, logger, email, timezone)
	case err != nil:
		return "", s.storeError("find subscriber", err)
	case existing.Subscribed:
		logger.InfoContext(ctx, "subscribe rejected, already active", slog.String("email", email))
		return "", domain.NewAlreadySubscribedError()
	}

	token, err := s.rotateToken(existing.UnsubscribeToken)
	if err != nil {
		return "", err
	}

	subscribed := true
	tz := domain.NormalizeTimezone(timezone)

	_, err = s.store.UpdateByEmail(ctx, email, domain.SubscriberUpdate{
		Subscribed:       &subscribed,
		UnsubscribeToken: &token,
		Timezone:         &tz,
	})
	if err != nil {
		return "", s.storeError("reactivate subscriber", err)
	}

	logger.InfoContext(ctx, "subscriber reactivated", slog.String("email", email))

	return domain.OutcomeResubscribed, nil
}

func (s *SubscriptionService) create(
	ctx context.Context,
	logger *slog.Logger,
	email, timezone string,
) (domain.Outcome, error) {
	token, err := s.rotateToken("")
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	sub := &domain.Subscriber{
		Email:            email,
		Subscribed:       true,
		UnsubscribeToken: token,
		Timezone:         domain.NormalizeTimezone(timezone),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.store.Insert(ctx, sub)
	if domain.IsConflict(err) {
		// Lost a race with a concurrent subscribe for the same address.
		return "", domain.NewAlreadySubscribedError()
	}

	if err != nil {
		return "", s.storeError("insert subscriber", err)
	}

	logger.InfoContext(ctx, "subscriber created",
		slog.String("email", email),
		slog.String("timezone", sub.Timezone),
	)

	return domain.OutcomeCreated, nil
}

// Unsubscribe deactivates email. Unsubscribing an inactive record succeeds.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, email string) (outcome domain.Outcome, err error) {
	logger := s.loggerFrom(ctx).With(slog.String("operation", opUnsubscribe))
	defer func() { s.observe(opUnsubscribe, outcome, err) }()

	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.NewValidationError("email", domain.MsgEmailRequired)
	}

	if err := s.deactivate(ctx, email); err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "subscriber deactivated", slog.String("email", email))

	return domain.OutcomeUnsubscribed, nil
}

// UnsubscribeByToken deactivates the subscriber owning token, as used by the
// link in every email.
func (s *SubscriptionService) UnsubscribeByToken(ctx context.Context, token string) (outcome domain.Outcome, err error) {
	logger := s.loggerFrom(ctx).With(slog.String("operation", opUnsubscribeByToken))
	defer func() { s.observe(opUnsubscribeByToken, outcome, err) }()

	if token == "" {
		return "", domain.NewValidationError("token", "Unsubscribe token is required")
	}

	sub, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return "", s.storeError("find subscriber by token", err)
	}

	if err := s.deactivate(ctx, sub.Email); err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "subscriber deactivated by token", slog.String("email", sub.Email))

	return domain.OutcomeUnsubscribed, nil
}

func (s *SubscriptionService) deactivate(ctx context.Context, email string) error {
	subscribed := false

	_, err := s.store.UpdateByEmail(ctx, email, domain.SubscriberUpdate{Subscribed: &subscribed})
	if domain.IsNotFound(err) {
		return domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	if err != nil {
		return s.storeError("deactivate subscriber", err)
	}

	return nil
}

// rotateToken returns a new token distinct from previous.
func (s *SubscriptionService) rotateToken(previous string) (string, error) {
	for range maxTokenAttempts {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("generating unsubscribe token: %w", err)
		}

		if token != "" && token != previous {
			return token, nil
		}
	}

	return "", errors.New("generating unsubscribe token: no distinct token produced")
}

// storeError passes domain errors through and marks everything else as a
// store outage.
func (s *SubscriptionService) storeError(action string, err error) error {
	if isDomainError(err) {
		return err
	}

	return fmt.Errorf("%s: %w", action, domain.NewUnavailableError(storeService, err.Error()))
}

func (s *SubscriptionService) observe(operation string, outcome domain.Outcome, err error) {
	label := string(outcome)
	if err != nil {
		label = metrics.ErrorClass(err)
	}

	s.metrics.ObserveSubscription(operation, label)
}

func (s *SubscriptionService) loggerFrom(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func randomToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrUnavailable) ||
		errors.Is(err, domain.ErrConfiguration)
}
