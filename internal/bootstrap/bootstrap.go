// Package bootstrap assembles the adapters shared by the service and the
// one-shot dispatch command from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/clients"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/clients/acl"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/store/dynamo"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/store/memory"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/store/sqlite"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// ProfileEnv selects the configs/{profile}.yaml overlay.
const ProfileEnv = "APP_ENVIRONMENT"

// Store is a subscriber store that also reports its health.
type Store interface {
	ports.SubscriberStore
	ports.HealthChecker
}

// LoadConfig loads and validates the configuration for the profile named
// by APP_ENVIRONMENT, defaulting to "local".
func LoadConfig() (*config.Config, error) {
	profile := os.Getenv(ProfileEnv)
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the root logger from cfg.
func NewLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// OpenStore opens the store selected by cfg.Driver. The returned close
// function is never nil.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.StoreDriverMemory, "":
		logger.Warn("using in-memory subscriber store; subscriptions are lost on restart")
		return memory.New(), noop, nil

	case config.StoreDriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite store: %w", err)
		}

		return s, s.Close, nil

	case config.StoreDriverDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, noop, fmt.Errorf("creating dynamodb client: %w", err)
		}

		s, err := dynamo.New(client, cfg.DynamoDB, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("opening dynamodb store: %w", err)
		}

		return s, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewGateway builds the Resend gateway over an instrumented client with
// the configured circuit breaker.
func NewGateway(cfg *config.Config, logger *slog.Logger) (*acl.ResendClient, error) {
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Email.BaseURL,
		ServiceName: cfg.Email.Name,
		Timeout:     cfg.Client.Timeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		AuthFunc:    acl.BearerAuth(cfg.Email.APIKey),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating email client: %w", err)
	}

	return acl.NewResendClient(acl.ResendClientConfig{
		Client: httpClient,
		APIKey: cfg.Email.APIKey,
		From:   cfg.Email.From,
		Name:   cfg.Email.Name,
		Logger: logger,
	}), nil
}
