// Package redisstats records rate limiter decisions in Redis hashes so
// several instances can share one view of allowed and denied traffic.
//
// Key layout under the configured prefix:
//
//	{prefix}:total                  allowed / denied, cumulative
//	{prefix}:minute:YYYYMMDDHHMM    allowed / denied per minute, expires after TTL
//	{prefix}:scope                  "{scope}:allowed" / "{scope}:denied"
//	{prefix}:route                  "{METHOD} {path}:allowed" / ...:denied
//	{prefix}:key:{client}           allowed / denied per client, only with TrackKeys
package redisstats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// DefaultPrefix is used when the configured prefix is blank.
const DefaultPrefix = "daily-stoic:ratelimit"

// Recorder implements ports.RateLimitRecorder and ports.HealthChecker.
type Recorder struct {
	rdb       redis.UniversalClient
	prefix    string
	ttl       time.Duration
	trackKeys bool
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Recorder) {
		if p := strings.Trim(prefix, ": "); p != "" {
			r.prefix = p
		}
	}
}

// WithTTL sets the expiry of per-minute and per-client keys. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(r *Recorder) { r.ttl = d }
}

// WithTrackKeys enables per-client counters.
func WithTrackKeys(track bool) Option {
	return func(r *Recorder) { r.trackKeys = track }
}

// New wraps an existing client.
func New(rdb redis.UniversalClient, opts ...Option) *Recorder {
	r := &Recorder{
		rdb:    rdb,
		prefix: DefaultPrefix,
		ttl:    24 * time.Hour,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewFromConfig builds a client from cfg. go-redis connects lazily on
// first use, so an unreachable server surfaces in Check and Record.
func NewFromConfig(cfg config.RateLimitStatsConfig) *Recorder {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return New(rdb,
		WithPrefix(cfg.Prefix),
		WithTTL(cfg.TTL),
		WithTrackKeys(cfg.TrackKeys),
	)
}

// Record implements ports.RateLimitRecorder. All counters for one event
// are written in a single pipeline.
func (r *Recorder) Record(ctx context.Context, ev ports.RateLimitEvent) error {
	if r == nil || r.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := r.rdb.Pipeline()
	pipe.HIncrBy(ctx, r.prefix+":total", field, 1)

	bucket := fmt.Sprintf("%s:minute:%s", r.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucket, field, 1)

	if r.ttl > 0 {
		pipe.Expire(ctx, bucket, r.ttl)
	}

	if scope := strings.TrimSpace(ev.Scope); scope != "" {
		pipe.HIncrBy(ctx, r.prefix+":scope", scope+":"+field, 1)
	}

	if route := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path)); route != "" {
		pipe.HIncrBy(ctx, r.prefix+":route", route+":"+field, 1)
	}

	if r.trackKeys {
		if k := strings.TrimSpace(ev.Key); k != "" {
			key := r.prefix + ":key:" + k
			pipe.HIncrBy(ctx, key, field, 1)

			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording rate limit event: %w", err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (r *Recorder) Name() string { return "ratelimit-stats" }

// Check implements ports.HealthChecker.
func (r *Recorder) Check(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Recorder) Close() error {
	return r.rdb.Close()
}
