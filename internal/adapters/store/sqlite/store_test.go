package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/store/storetest"
	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	s, err := Open(context.Background(), config.SQLiteConfig{
		Path:        path,
		BusyTimeout: time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.SubscriberStore {
		return openTestStore(t, filepath.Join(t.TempDir(), "subscribers.db"))
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), config.SQLiteConfig{Path: "  "}, nil)

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "store.sqlite.path", cfgErr.Setting)
}

func TestOpen_CreatesDirectoryAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "subscribers.db")
	ctx := context.Background()

	first, err := Open(ctx, config.SQLiteConfig{Path: path}, nil)
	require.NoError(t, err)
	require.NoError(t, first.Insert(ctx, &domain.Subscriber{Email: "a@b.co", Subscribed: true, UnsubscribeToken: "tok"}))
	require.NoError(t, first.Close())

	// Migrations are idempotent across reopen.
	second := openTestStore(t, path)

	got, err := second.FindByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.Email)
	assert.Equal(t, domain.DefaultTimezone, got.Timezone)
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "subscribers.db"))
	ctx := context.Background()

	base := time.Date(2025, time.March, 1, 6, 0, 0, 0, time.UTC)
	inserts := []struct {
		email string
		at    time.Time
	}{
		{"late@b.co", base.Add(2 * time.Second)},
		{"early@b.co", base},
		{"middle@b.co", base.Add(500 * time.Millisecond)},
	}

	for i, in := range inserts {
		require.NoError(t, s.Insert(ctx, &domain.Subscriber{
			Email:            in.email,
			Subscribed:       true,
			UnsubscribeToken: in.email + "-tok",
			CreatedAt:        in.at,
			UpdatedAt:        in.at,
		}), "insert %d", i)
	}

	subs, err := s.ListSubscribed(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	assert.Equal(t, "early@b.co", subs[0].Email)
	assert.Equal(t, "middle@b.co", subs[1].Email)
	assert.Equal(t, "late@b.co", subs[2].Email)
}

func TestStore_UpdateTokenConflict(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "subscribers.db"))
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, &domain.Subscriber{Email: "a@b.co", UnsubscribeToken: "t1"}))
	require.NoError(t, s.Insert(ctx, &domain.Subscriber{Email: "c@d.co", UnsubscribeToken: "t2"}))

	taken := "t2"
	_, err := s.UpdateByEmail(ctx, "a@b.co", domain.SubscriberUpdate{UnsubscribeToken: &taken})

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "unsubscribe token already in use", conflict.Reason)

	got, err := s.FindByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.UnsubscribeToken)
}

func TestStore_HealthCheck(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "subscribers.db"))

	assert.Equal(t, "subscriber-store", s.Name())
	assert.NoError(t, s.Check(context.Background()))

	require.NoError(t, s.Close())
	assert.Error(t, s.Check(context.Background()))
}
