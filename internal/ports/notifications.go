package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

// NotificationGateway delivers one rendered email.
//
// Implementations surface failures without retrying; the dispatch engine
// records them per recipient. Timeouts come from the implementation's own
// HTTP client, not from the caller.
type NotificationGateway interface {
	// Send delivers msg and returns the provider's message id.
	// Returns domain.ErrConfiguration when credentials are missing and
	// domain.ErrUnavailable for transport or provider failures.
	Send(ctx context.Context, msg domain.EmailMessage) (string, error)
}

// MessageRenderer turns a dispatch job into a deliverable email.
type MessageRenderer interface {
	Render(job domain.DispatchJob) (domain.EmailMessage, error)
}

// RateLimitEvent describes one limiter decision.
type RateLimitEvent struct {
	Scope   string
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// RateLimitRecorder receives limiter decisions for reporting.
// Recording is best effort; callers log and drop errors.
type RateLimitRecorder interface {
	Record(ctx context.Context, ev RateLimitEvent) error
}

// NopRateLimitRecorder discards every event.
type NopRateLimitRecorder struct{}

// Record implements RateLimitRecorder.
func (NopRateLimitRecorder) Record(context.Context, RateLimitEvent) error { return nil }
