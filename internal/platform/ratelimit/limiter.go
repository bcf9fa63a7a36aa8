// Package ratelimit implements a process-local fixed-window request limiter.
//
// Each key gets at most Limit accepted calls per Window. Windows are
// half-open: a call at exactly resetAt starts a new window. Keys are spread
// over independently locked shards, so check-and-increment on one key is
// atomic while unrelated keys never contend.
package ratelimit

import (
	"context"
	"errors"
	"hash/maphash"
	"sync"
	"time"
)

// Defaults applied by New when a field is zero.
const (
	DefaultShards  = 16
	DefaultMaxKeys = 100_000
)

// ErrInvalidConfig is returned by New for a non-positive limit or window.
var ErrInvalidConfig = errors.New("ratelimit: invalid config")

// Config describes one limiter. Each endpoint owns its own limiter.
type Config struct {
	// Limit is the number of calls admitted per key per window.
	Limit int

	// Window is the fixed window length.
	Window time.Duration

	// MaxKeys bounds the number of tracked keys. A new key in a full shard
	// takes the slot of an expired entry; when none has expired it shares
	// the shard's overflow bucket until one does. Live entries are never
	// dropped.
	MaxKeys int

	// Shards is the number of lock stripes.
	Shards int
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindow) { l.now = now }
}

// FixedWindow is a sharded fixed-window limiter. The zero value is not usable.
type FixedWindow struct {
	limit       int
	window      time.Duration
	keysByShard int
	seed        maphash.Seed
	shards      []*shard
	now         func() time.Time
}

// New creates a limiter from cfg.
func New(cfg Config, opts ...Option) (*FixedWindow, error) {
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, ErrInvalidConfig
	}

	if cfg.Shards <= 0 {
		cfg.Shards = DefaultShards
	}

	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = DefaultMaxKeys
	}

	perShard := max(cfg.MaxKeys/cfg.Shards, 1)

	l := &FixedWindow{
		limit:       cfg.Limit,
		window:      cfg.Window,
		keysByShard: perShard,
		seed:        maphash.MakeSeed(),
		shards:      make([]*shard, cfg.Shards),
		now:         time.Now,
	}

	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string]*entry)}
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Limit returns the per-window capacity.
func (l *FixedWindow) Limit() int { return l.limit }

// Window returns the window length.
func (l *FixedWindow) Window() time.Duration { return l.window }

// Allow records a call for key and reports whether it is admitted.
// Rejected calls do not consume capacity.
func (l *FixedWindow) Allow(key string) Decision {
	now := l.now()
	s := l.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		if len(s.entries) >= l.keysByShard && s.removeExpired(now) == 0 {
			e = &s.overflow
		} else {
			e = &entry{}
			s.entries[key] = e
		}
	}

	if !now.Before(e.resetAt) {
		e.count, e.resetAt = 0, now.Add(l.window)
	}

	if e.count >= l.limit {
		return l.decision(false, e, now)
	}

	e.count++

	return l.decision(true, e, now)
}

func (l *FixedWindow) decision(allowed bool, e *entry, now time.Time) Decision {
	d := Decision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: max(l.limit-e.count, 0),
		ResetAt:   e.resetAt,
	}

	if !allowed {
		d.RetryAfter = e.resetAt.Sub(now)
	}

	return d
}

// Sweep removes every entry whose window has expired and returns how many
// were removed. Each shard is locked only while it is scanned.
func (l *FixedWindow) Sweep() int {
	now := l.now()
	removed := 0

	for _, s := range l.shards {
		s.mu.Lock()
		removed += s.removeExpired(now)
		s.mu.Unlock()
	}

	return removed
}

// Len returns the number of tracked keys.
func (l *FixedWindow) Len() int {
	n := 0

	for _, s := range l.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}

	return n
}

// StartJanitor sweeps expired entries every interval until ctx is done.
// The optional onSweep callback receives the number of removed entries.
func (l *FixedWindow) StartJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)

	go func() {
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n := l.Sweep()
				if onSweep != nil {
					onSweep(n)
				}
			}
		}
	}()
}

func (l *FixedWindow) shardFor(key string) *shard {
	return l.shards[maphash.String(l.seed, key)%uint64(len(l.shards))]
}

type entry struct {
	count   int
	resetAt time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry

	// overflow is shared by new keys while entries is full of live windows.
	overflow entry
}

func (s *shard) removeExpired(now time.Time) int {
	removed := 0

	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
			removed++
		}
	}

	return removed
}
