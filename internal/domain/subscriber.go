package domain

import (
	"regexp"
	"strings"
	"time"
)

// EntitySubscriber names subscriber records in errors and logs.
const EntitySubscriber = "subscriber"

// DefaultTimezone is stored when a subscriber does not provide one.
const DefaultTimezone = "UTC"

// User-facing validation messages.
const (
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email address"
)

// emailPattern is local@domain.tld with no whitespace or extra '@'.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Subscriber is one entry of the mailing list.
// Records are never deleted; Subscribed alone decides dispatch eligibility.
type Subscriber struct {
	// Email is the normalized (trimmed, lower-cased) address and unique key.
	Email string

	// Subscribed is true while the subscriber should receive the daily quote.
	Subscribed bool

	// UnsubscribeToken authorizes one-click unsubscribe links.
	// It is unique across all records and rotated on every (re)subscribe.
	UnsubscribeToken string

	// Timezone is informational; dispatch runs on one global schedule.
	Timezone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriberUpdate carries the fields to change on an existing record.
// Nil fields are left untouched.
type SubscriberUpdate struct {
	Subscribed       *bool
	UnsubscribeToken *string
	Timezone         *string
}

// Outcome is the result of a successful subscription mutation.
type Outcome string

// Subscription outcomes.
const (
	OutcomeCreated      Outcome = "created"
	OutcomeResubscribed Outcome = "resubscribed"
	OutcomeUnsubscribed Outcome = "unsubscribed"
)

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks a normalized address. Empty input and pattern
// mismatches produce distinct validation messages.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", MsgEmailRequired)
	}

	if !emailPattern.MatchString(email) {
		return NewValidationError("email", MsgEmailInvalid)
	}

	return nil
}

// NormalizeTimezone returns tz trimmed, or DefaultTimezone when blank.
func NormalizeTimezone(tz string) string {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return DefaultTimezone
	}

	return tz
}
