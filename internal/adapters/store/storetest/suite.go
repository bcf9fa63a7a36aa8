// Package storetest holds the behavioral tests every ports.SubscriberStore
// implementation must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) ports.SubscriberStore

var created = time.Date(2025, time.January, 2, 7, 0, 0, 0, time.UTC)

func subscriber(email, token string, active bool) *domain.Subscriber {
	return &domain.Subscriber{
		Email:            email,
		Subscribed:       active,
		UnsubscribeToken: token,
		Timezone:         domain.DefaultTimezone,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func ptr[T any](v T) *T { return &v }

// Run executes the contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	ctx := context.Background()

	t.Run("insert then find by email and token", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, subscriber("a@b.co", "tok-a", true)))

		got, err := s.FindByEmail(ctx, "a@b.co")
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", got.Email)
		assert.True(t, got.Subscribed)
		assert.Equal(t, "tok-a", got.UnsubscribeToken)
		assert.Equal(t, domain.DefaultTimezone, got.Timezone)
		assert.True(t, got.CreatedAt.Equal(created), "created_at round trip: %v", got.CreatedAt)

		byToken, err := s.FindByToken(ctx, "tok-a")
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", byToken.Email)
	})

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, subscriber("a@b.co", "tok-a", true)))

		got, err := s.FindByEmail(ctx, "A@B.CO")
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", got.Email)
	})

	t.Run("missing records are not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.FindByEmail(ctx, "nobody@b.co")
		assert.True(t, domain.IsNotFound(err), "FindByEmail: %v", err)

		_, err = s.FindByToken(ctx, "nope")
		assert.True(t, domain.IsNotFound(err), "FindByToken: %v", err)

		_, err = s.UpdateByEmail(ctx, "nobody@b.co", domain.SubscriberUpdate{Subscribed: ptr(false)})
		assert.True(t, domain.IsNotFound(err), "UpdateByEmail: %v", err)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, subscriber("a@b.co", "tok-1", true)))

		err := s.Insert(ctx, subscriber("a@b.co", "tok-2", true))
		assert.True(t, domain.IsConflict(err), "got %v", err)
	})

	t.Run("duplicate token conflicts", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, subscriber("a@b.co", "tok-1", true)))

		err := s.Insert(ctx, subscriber("c@d.co", "tok-1", true))
		assert.True(t, domain.IsConflict(err), "got %v", err)
	})

	t.Run("update applies only set fields", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, subscriber("a@b.co", "tok-1", true)))

		got, err := s.UpdateByEmail(ctx, "a@b.co", domain.SubscriberUpdate{Subscribed: ptr(false)})
		require.NoError(t, err)
		assert.False(t, got.Subscribed)
		assert.Equal(t, "tok-1", got.UnsubscribeToken)
		assert.Equal(t, domain.DefaultTimezone, got.Timezone)

		got, err = s.UpdateByEmail(ctx, "a@b.co", domain.SubscriberUpdate{
			Subscribed:       ptr(true),
			UnsubscribeToken: ptr("tok-2"),
			Timezone:         ptr("Asia/Tokyo"),
		})
		require.NoError(t, err)
		assert.True(t, got.Subscribed)
		assert.Equal(t, "tok-2", got.UnsubscribeToken)
		assert.Equal(t, "Asia/Tokyo", got.Timezone)

		_, err = s.FindByToken(ctx, "tok-1")
		assert.True(t, domain.IsNotFound(err), "old token must be released")

		byToken, err := s.FindByToken(ctx, "tok-2")
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", byToken.Email)
	})

	t.Run("list returns only active subscribers", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, subscriber("a@b.co", "t1", true)))
		require.NoError(t, s.Insert(ctx, subscriber("c@d.co", "t2", false)))
		require.NoError(t, s.Insert(ctx, subscriber("e@f.co", "t3", true)))

		subs, err := s.ListSubscribed(ctx)
		require.NoError(t, err)

		emails := make([]string, 0, len(subs))
		for _, sub := range subs {
			assert.True(t, sub.Subscribed)
			emails = append(emails, sub.Email)
		}

		assert.ElementsMatch(t, []string{"a@b.co", "e@f.co"}, emails)
	})

	t.Run("list on empty store", func(t *testing.T) {
		subs, err := newStore(t).ListSubscribed(ctx)

		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("concurrent inserts of one email admit exactly one", func(t *testing.T) {
		s := newStore(t)

		const n = 8

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			ok        int
			conflicts int
		)

		for i := range n {
			wg.Go(func() {
				err := s.Insert(ctx, subscriber("race@b.co", fmt.Sprintf("tok-%d", i), true))

				mu.Lock()
				defer mu.Unlock()

				switch {
				case err == nil:
					ok++
				case domain.IsConflict(err):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			})
		}

		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, n-1, conflicts)
	})
}
