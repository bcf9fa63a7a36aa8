package domain

import (
	"strings"
	"time"
)

// DateLabelLayout renders dates as "Wednesday, January 1, 2025".
const DateLabelLayout = "Monday, January 2, 2006"

// ReasonNoSubscribers is reported when a dispatch run finds nobody to send to.
const ReasonNoSubscribers = "No active subscribers"

// DispatchState tracks the progress of one dispatch run.
type DispatchState string

// Dispatch run states. Aggregated and Failed are terminal.
const (
	DispatchIdle       DispatchState = "idle"
	DispatchSelecting  DispatchState = "selecting"
	DispatchFetching   DispatchState = "fetching"
	DispatchFanningOut DispatchState = "fanning_out"
	DispatchAggregated DispatchState = "aggregated"
	DispatchFailed     DispatchState = "failed"
)

// DispatchJob is the per-recipient unit of work of a dispatch run.
type DispatchJob struct {
	To             string
	Quote          string
	Author         string
	DateLabel      string
	UnsubscribeURL string
}

// Validate rejects jobs with a blank recipient, quote or author.
func (j DispatchJob) Validate() error {
	switch {
	case strings.TrimSpace(j.To) == "":
		return NewValidationError("to", "email address is required")
	case strings.TrimSpace(j.Quote) == "":
		return NewValidationError("quote", "quote is required")
	case strings.TrimSpace(j.Author) == "":
		return NewValidationError("author", "author is required")
	}

	return nil
}

// EmailMessage is a fully rendered email ready for the notification gateway.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// DispatchFailure names a recipient whose send failed and why.
type DispatchFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// DispatchReport summarizes one dispatch run.
type DispatchReport struct {
	State      DispatchState     `json:"state"`
	Date       string            `json:"date"`
	Quote      string            `json:"quote,omitempty"`
	Author     string            `json:"author,omitempty"`
	Sent       bool              `json:"sent"`
	Reason     string            `json:"reason,omitempty"`
	Total      int               `json:"subscribersCount"`
	Succeeded  int               `json:"succeeded"`
	Failures   []DispatchFailure `json:"failures,omitempty"`
	MessageIDs []string          `json:"emailResults,omitempty"`
	StartedAt  time.Time         `json:"startedAt"`
	Duration   time.Duration     `json:"duration"`
}

// Failed returns the number of recipients whose send failed.
func (r *DispatchReport) Failed() int {
	return len(r.Failures)
}

// DateLabel formats t for email bodies and reports.
func DateLabel(t time.Time) string {
	return t.Format(DateLabelLayout)
}
