// Package sqlite is a ports.SubscriberStore backed by an embedded SQLite
// database file (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `email, subscribed, unsubscribe_token, timezone, created_at, updated_at`

// Store implements ports.SubscriberStore on database/sql.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open creates the database file if needed, applies pragmas and runs the
// embedded migrations.
func Open(ctx context.Context, cfg config.SQLiteConfig, logger *slog.Logger) (*Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, domain.NewConfigurationError("store.sqlite.path", "path is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	if cfg.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			logger.WarnContext(ctx, "sqlite pragma failed", slog.String("pragma", p), slog.Any("error", err))
		}
	}

	s := &Store{db: db, logger: logger, now: time.Now}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "sqlite store ready", slog.String("path", path))

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// FindByEmail implements ports.SubscriberStore.
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)

	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM subscribers WHERE email = ?`, email)

	return scanOne(row, email)
}

// FindByToken implements ports.SubscriberStore.
func (s *Store) FindByToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM subscribers WHERE unsubscribe_token = ?`, token)

	return scanOne(row, "")
}

// Insert implements ports.SubscriberStore.
func (s *Store) Insert(ctx context.Context, sub *domain.Subscriber) error {
	now := s.now().UTC()

	created, updated := sub.CreatedAt, sub.UpdatedAt
	if created.IsZero() {
		created = now
	}

	if updated.IsZero() {
		updated = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers(email, subscribed, unsubscribe_token, timezone, created_at, updated_at)
		 VALUES(?,?,?,?,?,?)`,
		domain.NormalizeEmail(sub.Email), sub.Subscribed, sub.UnsubscribeToken, domain.NormalizeTimezone(sub.Timezone),
		created.UTC().Format(timeLayout), updated.UTC().Format(timeLayout),
	)
	if err != nil {
		return translate(err, "inserting subscriber")
	}

	return nil
}

// UpdateByEmail implements ports.SubscriberStore.
func (s *Store) UpdateByEmail(ctx context.Context, email string, update domain.SubscriberUpdate) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)

	sets := []string{"updated_at = ?"}
	args := []any{s.now().UTC().Format(timeLayout)}

	if update.Subscribed != nil {
		sets = append(sets, "subscribed = ?")
		args = append(args, *update.Subscribed)
	}

	if update.UnsubscribeToken != nil {
		sets = append(sets, "unsubscribe_token = ?")
		args = append(args, *update.UnsubscribeToken)
	}

	if update.Timezone != nil {
		sets = append(sets, "timezone = ?")
		args = append(args, *update.Timezone)
	}

	args = append(args, email)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE subscribers SET `+strings.Join(sets, ", ")+` WHERE email = ?`, args...)
	if err != nil {
		return nil, translate(err, "updating subscriber")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating subscriber: %w", err)
	}

	if n == 0 {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	sub, err := scanOne(tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM subscribers WHERE email = ?`, email), email)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing subscriber update: %w", err)
	}

	return sub, nil
}

// ListSubscribed implements ports.SubscriberStore. Results are ordered by
// creation time, then email.
func (s *Store) ListSubscribed(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM subscribers WHERE subscribed = 1 ORDER BY created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Subscriber, 0)

	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}

	return out, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "subscriber-store" }

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner, email string) (*domain.Subscriber, error) {
	sub, err := scanSubscriber(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	return sub, err
}

func scanSubscriber(row scanner) (*domain.Subscriber, error) {
	var (
		sub              domain.Subscriber
		created, updated string
	)

	if err := row.Scan(&sub.Email, &sub.Subscribed, &sub.UnsubscribeToken, &sub.Timezone, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("scanning subscriber: %w", err)
	}

	var err error
	if sub.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if sub.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &sub, nil
}

// translate maps uniqueness violations to domain conflicts.
func translate(err error, op string) error {
	var serr *sqlitedriver.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.NewConflictError(domain.EntitySubscriber, conflictReason(serr.Error()))
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func conflictReason(msg string) string {
	if strings.Contains(msg, "unsubscribe_token") {
		return "unsubscribe token already in use"
	}

	return "email already registered"
}
