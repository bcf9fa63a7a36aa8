package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newLimiter(t *testing.T, cfg Config, clock *fakeClock) *FixedWindow {
	t.Helper()

	l, err := New(cfg, WithClock(clock.Now))
	require.NoError(t, err)

	return l
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero limit", Config{Limit: 0, Window: time.Minute}},
		{"negative limit", Config{Limit: -1, Window: time.Minute}},
		{"zero window", Config{Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestAllow_AdmitsExactlyLimitPerWindow(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 5, Window: time.Minute}, clock)

	for i := range 5 {
		d := l.Allow("10.0.0.1")
		require.True(t, d.Allowed, "call %d", i+1)
		assert.Equal(t, 4-i, d.Remaining)
		assert.Equal(t, 5, d.Limit)
	}

	d := l.Allow("10.0.0.1")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Minute, d.RetryAfter)
}

func TestAllow_RejectedCallsDoNotConsume(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 2, Window: time.Minute}, clock)

	l.Allow("k")
	l.Allow("k")

	for range 10 {
		assert.False(t, l.Allow("k").Allowed)
	}

	clock.Advance(time.Minute)

	assert.True(t, l.Allow("k").Allowed)
	assert.True(t, l.Allow("k").Allowed)
	assert.False(t, l.Allow("k").Allowed)
}

func TestAllow_WindowBoundaryResetsCleanly(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 3, Window: time.Minute}, clock)

	for range 3 {
		require.True(t, l.Allow("k").Allowed)
	}

	clock.Advance(time.Minute - time.Nanosecond)
	d := l.Allow("k")
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Nanosecond, d.RetryAfter)

	// Exactly at resetAt a fresh window begins with count 1.
	clock.Advance(time.Nanosecond)
	d = l.Allow("k")
	require.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 1, Window: time.Minute}, clock)

	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
	assert.True(t, l.Allow("unknown").Allowed)
}

func TestAllow_ConcurrentSameKeyNoLostIncrements(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 50, Window: time.Minute}, clock)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int64
	)

	for range 200 {
		wg.Go(func() {
			if l.Allow("shared").Allowed {
				allowed.Add(1)
			}
		})
	}

	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 5, Window: time.Minute}, clock)

	l.Allow("old")
	clock.Advance(30 * time.Second)
	l.Allow("fresh")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())

	// A swept key starts a new window on its next call.
	d := l.Allow("old")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestSweep_ConcurrentWithAllow(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 1000, Window: time.Millisecond}, clock)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Go(func() {
			for j := range 500 {
				l.Allow(fmt.Sprintf("k-%d-%d", i, j%10))
				if j%50 == 0 {
					clock.Advance(time.Millisecond)
				}
			}
		})
	}

	wg.Go(func() {
		for range 100 {
			l.Sweep()
		}
	})

	wg.Wait()

	clock.Advance(time.Second)
	l.Sweep()
	assert.Zero(t, l.Len())
}

func TestAllow_FullShardKeepsLiveEntries(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 2, Window: time.Minute, MaxKeys: 2, Shards: 1}, clock)

	// "throttled" uses up its window.
	l.Allow("throttled")
	l.Allow("throttled")
	require.False(t, l.Allow("throttled").Allowed)
	l.Allow("other")

	// A flood of new keys cannot push the throttled client out.
	for i := range 50 {
		l.Allow(fmt.Sprintf("flood-%d", i))
	}

	assert.Equal(t, 2, l.Len())
	assert.False(t, l.Allow("throttled").Allowed)
}

func TestAllow_FullShardOverflowIsShared(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 2, Window: time.Minute, MaxKeys: 1, Shards: 1}, clock)

	l.Allow("tracked")

	assert.True(t, l.Allow("new-1").Allowed)
	assert.True(t, l.Allow("new-2").Allowed)

	d := l.Allow("new-3")
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)

	// Once the tracked window expires a new key gets its own slot again.
	clock.Advance(time.Minute)

	d = l.Allow("new-3")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, 1, l.Len())
}

func TestAllow_MaxKeysPrefersExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 5, Window: time.Minute, MaxKeys: 2, Shards: 1}, clock)

	l.Allow("stale")
	clock.Advance(2 * time.Minute)
	l.Allow("live")
	l.Allow("live")
	l.Allow("new")

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 2, l.Allow("live").Remaining)
}

func TestStartJanitor(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 5, Window: time.Minute}, clock)

	l.Allow("a")
	l.Allow("b")
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	swept := make(chan int, 16)
	l.StartJanitor(ctx, 5*time.Millisecond, func(n int) {
		select {
		case swept <- n:
		default:
		}
	})

	require.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, <-swept)
}

func TestStartJanitor_DisabledInterval(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(t, Config{Limit: 5, Window: time.Minute}, clock)

	l.StartJanitor(context.Background(), 0, nil)
	l.Allow("a")

	assert.Equal(t, 1, l.Len())
}
