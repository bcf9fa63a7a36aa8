// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (64KB).
	DefaultMaxRequestSize = 64 << 10

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultSubscribeLimit is the number of subscribe calls per client per window.
	DefaultSubscribeLimit = 5

	// DefaultUnsubscribeLimit is the number of unsubscribe calls per client per window.
	DefaultUnsubscribeLimit = 10

	// DefaultRateLimitMaxKeys bounds the clients tracked by each limiter.
	DefaultRateLimitMaxKeys = 100_000

	// DefaultDispatchConcurrency caps in-flight sends during a dispatch run.
	DefaultDispatchConcurrency = 10

	// DefaultDispatchSchedule fires the daily dispatch at 08:00.
	DefaultDispatchSchedule = "0 8 * * *"

	// DefaultEmailFrom is used when no sender is configured.
	DefaultEmailFrom = "Daily Stoic <onboarding@resend.dev>"

	// DefaultEmailBaseURL is the Resend API endpoint.
	DefaultEmailBaseURL = "https://api.resend.com"
)

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverDynamoDB = "dynamodb"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"        validate:"required"`
	Server    ServerConfig    `koanf:"server"     validate:"required"`
	Log       LogConfig       `koanf:"log"        validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"     validate:"required"`
	RateLimit RateLimitConfig `koanf:"rate_limit" validate:"required"`
	Store     StoreConfig     `koanf:"store"      validate:"required"`
	Email     EmailConfig     `koanf:"email"      validate:"required"`
	Dispatch  DispatchConfig  `koanf:"dispatch"   validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`

	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For is believed. Empty means the socket address is the
	// client.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr|ip"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains outbound HTTP client settings. There is no retry
// section: send failures are reported, not retried.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`

	// Enforce makes an open breaker reject requests. When false the breaker
	// only tracks provider health for readiness and every request is sent.
	Enforce bool `koanf:"enforce"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// RateLimitConfig configures the per-client limiters on mutation endpoints.
type RateLimitConfig struct {
	Window           time.Duration        `koanf:"window"            validate:"required,min=1s"`
	SubscribeLimit   int                  `koanf:"subscribe_limit"   validate:"required,min=1"`
	UnsubscribeLimit int                  `koanf:"unsubscribe_limit" validate:"required,min=1"`
	SweepInterval    time.Duration        `koanf:"sweep_interval"    validate:"required,min=1s"`
	MaxKeys          int                  `koanf:"max_keys"          validate:"required,min=1"`
	Stats            RateLimitStatsConfig `koanf:"stats"`
}

// RateLimitStatsConfig configures the optional Redis decision recorder.
type RateLimitStatsConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Addr      string        `koanf:"addr"       validate:"required_if=Enabled true"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"         validate:"min=0"`
	Prefix    string        `koanf:"prefix"`
	TTL       time.Duration `koanf:"ttl"`
	TrackKeys bool          `koanf:"track_keys"`
}

// StoreConfig selects and configures the subscriber store.
type StoreConfig struct {
	Driver   string         `koanf:"driver"   validate:"required,oneof=memory sqlite dynamodb"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	DynamoDB DynamoDBConfig `koanf:"dynamodb"`
}

// SQLiteConfig configures the embedded SQL store.
type SQLiteConfig struct {
	Path        string        `koanf:"path"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// DynamoDBConfig configures the DynamoDB store.
type DynamoDBConfig struct {
	Table      string `koanf:"table"`
	TokenIndex string `koanf:"token_index"`
	Region     string `koanf:"region"`
	Endpoint   string `koanf:"endpoint"    validate:"omitempty,url"`
}

// EmailConfig configures the Resend gateway. A missing APIKey is not a
// startup error; sends fail with a configuration error instead.
type EmailConfig struct {
	APIKey  string `koanf:"api_key"`
	From    string `koanf:"from"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
}

// DispatchConfig configures the daily quote run.
type DispatchConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Schedule    string        `koanf:"schedule"     validate:"required"`
	Timezone    string        `koanf:"timezone"     validate:"required"`
	AppURL      string        `koanf:"app_url"      validate:"required,url"`
	Concurrency int           `koanf:"concurrency"  validate:"required,min=1,max=100"`
	SendRate    float64       `koanf:"send_rate"    validate:"min=0"`
	Burst       int           `koanf:"burst"        validate:"min=0"`
	RunTimeout  time.Duration `koanf:"run_timeout"  validate:"required,min=1s"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "daily-stoic",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "10s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.trusted_proxies":  []string{},

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/daily-stoic.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "daily-stoic",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "10s",
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.circuit_breaker.enforce":           false,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"rate_limit.window":            "60s",
		"rate_limit.subscribe_limit":   DefaultSubscribeLimit,
		"rate_limit.unsubscribe_limit": DefaultUnsubscribeLimit,
		"rate_limit.sweep_interval":    "5m",
		"rate_limit.max_keys":          DefaultRateLimitMaxKeys,
		"rate_limit.stats.enabled":     false,
		"rate_limit.stats.addr":        "localhost:6379",
		"rate_limit.stats.db":          0,
		"rate_limit.stats.prefix":      "daily-stoic:ratelimit",
		"rate_limit.stats.ttl":         "24h",
		"rate_limit.stats.track_keys":  false,

		"store.driver":                "memory",
		"store.sqlite.path":           "./data/subscribers.db",
		"store.sqlite.busy_timeout":   "5s",
		"store.dynamodb.table":        "subscribers",
		"store.dynamodb.token_index":  "unsubscribe_token-index",
		"store.dynamodb.region":       "",
		"store.dynamodb.endpoint":     "",

		"email.api_key":  "",
		"email.from":     DefaultEmailFrom,
		"email.base_url": DefaultEmailBaseURL,
		"email.name":     "resend",

		"dispatch.enabled":     true,
		"dispatch.schedule":    DefaultDispatchSchedule,
		"dispatch.timezone":    "UTC",
		"dispatch.app_url":     "http://localhost:8080",
		"dispatch.concurrency": DefaultDispatchConcurrency,
		"dispatch.send_rate":   0.0,
		"dispatch.burst":       1,
		"dispatch.run_timeout": "10m",
	}
}

// legacyEnv maps environment variables used by earlier deployments to
// their config keys. APP_ variables take precedence over these.
var legacyEnv = map[string]string{
	"RESEND_API_KEY": "email.api_key",
	"EMAIL_FROM":     "email.from",
	"APP_URL":        "dispatch.app_url",
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix, "__" separates nested keys)
//  2. Legacy environment variables (RESEND_API_KEY, EMAIL_FROM, APP_URL)
//  3. Profile config file (configs/{profile}.yaml)
//  4. Base config file (configs/base.yaml)
//  5. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading legacy env vars: %w", err)
	}

	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Email.From = NormalizeSender(cfg.Email.From)

	return &cfg, nil
}

// envKey maps APP_RATE_LIMIT__SUBSCRIBE_LIMIT to rate_limit.subscribe_limit.
// Legacy names handled elsewhere are skipped.
func envKey(s string) string {
	if _, ok := legacyEnv[s]; ok {
		return ""
	}

	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APP_")), "__", ".")
}

// NormalizeSender trims whitespace and one pair of surrounding quotes, which
// shells and .env files commonly leave on EMAIL_FROM.
func NormalizeSender(from string) string {
	from = strings.TrimSpace(from)
	from = strings.TrimPrefix(strings.TrimPrefix(from, `"`), `'`)
	from = strings.TrimSuffix(strings.TrimSuffix(from, `"`), `'`)

	return strings.TrimSpace(from)
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
