// Package ports defines the contracts between the application layer and
// its collaborators: the subscriber store, the notification gateway,
// message rendering and rate-limit telemetry.
//
// Port conventions:
//   - Context as first parameter for cancellation and deadlines
//   - Domain types in, domain types out
//   - Failures use domain error types (ErrNotFound, ErrConflict, ErrUnavailable)
package ports

import (
	"context"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

// SubscriberStore is the durable registry of subscriber records.
// Emails passed in are already normalized; implementations must still
// treat them as the case-insensitive unique key.
//
// Example usage in the application layer:
//
//	sub, err := store.FindByEmail(ctx, email)
//	if domain.IsNotFound(err) {
//	    // first subscription
//	}
type SubscriberStore interface {
	// FindByEmail returns the record for email.
	// Returns domain.ErrNotFound if no record exists.
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)

	// FindByToken returns the record owning an unsubscribe token.
	// Returns domain.ErrNotFound if no record holds the token.
	FindByToken(ctx context.Context, token string) (*domain.Subscriber, error)

	// Insert creates a new record.
	// Returns domain.ErrConflict if the email or token is already taken.
	Insert(ctx context.Context, sub *domain.Subscriber) error

	// UpdateByEmail applies the non-nil fields of update and returns the
	// stored record. Returns domain.ErrNotFound if no record matches.
	UpdateByEmail(ctx context.Context, email string, update domain.SubscriberUpdate) (*domain.Subscriber, error)

	// ListSubscribed returns every record with Subscribed == true.
	ListSubscribed(ctx context.Context) ([]domain.Subscriber, error)
}
