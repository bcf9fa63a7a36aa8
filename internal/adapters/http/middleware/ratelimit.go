package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
	"github.com/jsamuelsen/daily-stoic/internal/platform/metrics"
	"github.com/jsamuelsen/daily-stoic/internal/platform/ratelimit"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// Rate limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = dto.HeaderRetryAfter
)

// UnknownClientKey is the bucket for requests with no usable client address.
const UnknownClientKey = "unknown"

// recordTimeout bounds one asynchronous stats write.
const recordTimeout = 500 * time.Millisecond

// Limiter admits or rejects calls per key. *ratelimit.FixedWindow satisfies it.
type Limiter interface {
	Allow(key string) ratelimit.Decision
}

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// Scope labels decisions in metrics and stats, e.g. "subscribe".
	Scope string

	Limiter Limiter

	// Recorder receives every decision. Nil disables recording.
	Recorder ports.RateLimitRecorder

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// RateLimit returns middleware that applies cfg.Limiter per client key.
// Every response carries the X-RateLimit-* headers; rejected requests get
// a 429 envelope with Retry-After and never reach the handler.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		panic("middleware: rate limiter is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(c *gin.Context) {
		key := ClientKey(c)
		d := cfg.Limiter.Allow(key)

		c.Header(HeaderRateLimitLimit, strconv.Itoa(d.Limit))
		c.Header(HeaderRateLimitRemaining, strconv.Itoa(d.Remaining))
		c.Header(HeaderRateLimitReset, strconv.FormatInt(d.ResetAt.Unix(), 10))

		cfg.Metrics.ObserveRateLimit(cfg.Scope, d.Allowed)
		record(c, cfg, key, d.Allowed)

		if d.Allowed {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logging.FromContextOr(ctx, cfg.Logger).WarnContext(ctx, "rate limit exceeded",
			slog.String("scope", cfg.Scope),
			slog.String("client", key),
			slog.Duration("retry_after", d.RetryAfter),
		)

		dto.AbortWithError(c, domain.NewRateLimitError(key, d.Limit, d.RetryAfter))
	}
}

// ClientKey identifies the caller: gin's client IP, then the first
// X-Forwarded-For entry, then UnknownClientKey. All unidentifiable callers
// share one bucket. The client IP is the socket address unless the engine
// trusts the peer as a proxy, so X-Forwarded-For only decides the key when
// the socket address is unusable.
func ClientKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	return UnknownClientKey
}

func record(c *gin.Context, cfg RateLimitConfig, key string, allowed bool) {
	if cfg.Recorder == nil {
		return
	}

	ev := ports.RateLimitEvent{
		Scope:   cfg.Scope,
		Key:     key,
		Allowed: allowed,
		Method:  c.Request.Method,
		Path:    c.FullPath(),
		At:      time.Now(),
	}

	ctx := context.WithoutCancel(c.Request.Context())
	logger := logging.FromContextOr(ctx, cfg.Logger)

	go func() {
		ctx, cancel := context.WithTimeout(ctx, recordTimeout)
		defer cancel()

		if err := cfg.Recorder.Record(ctx, ev); err != nil {
			logger.DebugContext(ctx, "rate limit stats not recorded", slog.Any("error", err))
		}
	}()
}
