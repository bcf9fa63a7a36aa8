// Package metrics holds the Prometheus collectors for subscriptions, rate
// limiting and dispatch runs. All methods are safe on a nil *Metrics so
// components can run without instrumentation in tests.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

const namespace = "daily_stoic"

// Metrics groups the service's collectors.
type Metrics struct {
	subscriptions  *prometheus.CounterVec
	rateLimit      *prometheus.CounterVec
	rateLimitSwept *prometheus.CounterVec
	dispatchRuns   *prometheus.CounterVec
	dispatchEmails *prometheus.CounterVec
	dispatchTime   prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		subscriptions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_requests_total",
			Help:      "Subscription mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		rateLimit: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Rate limiter decisions by scope.",
		}, []string{"scope", "allowed"}),
		rateLimitSwept: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_entries_swept_total",
			Help:      "Expired rate limit entries removed by the janitor.",
		}, []string{"scope"}),
		dispatchRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_runs_total",
			Help:      "Dispatch runs by terminal state.",
		}, []string{"state"}),
		dispatchEmails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_emails_total",
			Help:      "Emails attempted during dispatch runs by result.",
		}, []string{"result"}),
		dispatchTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Wall time of dispatch runs.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}),
	}
}

// ObserveSubscription counts a subscribe/unsubscribe call. outcome is a
// domain.Outcome on success or an error class on failure.
func (m *Metrics) ObserveSubscription(operation, outcome string) {
	if m == nil {
		return
	}

	m.subscriptions.WithLabelValues(operation, outcome).Inc()
}

// ObserveRateLimit counts one limiter decision.
func (m *Metrics) ObserveRateLimit(scope string, allowed bool) {
	if m == nil {
		return
	}

	m.rateLimit.WithLabelValues(scope, strconv.FormatBool(allowed)).Inc()
}

// ObserveSweep counts entries removed by a janitor pass.
func (m *Metrics) ObserveSweep(scope string, removed int) {
	if m == nil || removed <= 0 {
		return
	}

	m.rateLimitSwept.WithLabelValues(scope).Add(float64(removed))
}

// ObserveDispatch records a finished run.
func (m *Metrics) ObserveDispatch(r *domain.DispatchReport) {
	if m == nil || r == nil {
		return
	}

	m.dispatchRuns.WithLabelValues(string(r.State)).Inc()
	m.dispatchEmails.WithLabelValues("sent").Add(float64(r.Succeeded))
	m.dispatchEmails.WithLabelValues("failed").Add(float64(r.Failed()))
	m.dispatchTime.Observe(r.Duration.Seconds())
}

// ErrorClass maps an error to a low-cardinality label value.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsAlreadySubscribed(err):
		return "already_subscribed"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsRateLimited(err):
		return "rate_limited"
	case domain.IsConfiguration(err):
		return "configuration"
	case domain.IsUnavailable(err):
		return "unavailable"
	default:
		return "internal"
	}
}
