package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues tests that hardcoded defaults are applied correctly.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "daily-stoic", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultSubscribeLimit, cfg.RateLimit.SubscribeLimit)
	assert.Equal(t, DefaultUnsubscribeLimit, cfg.RateLimit.UnsubscribeLimit)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, DefaultEmailFrom, cfg.Email.From)
	assert.Equal(t, DefaultDispatchSchedule, cfg.Dispatch.Schedule)
	assert.Equal(t, "UTC", cfg.Dispatch.Timezone)
	assert.True(t, cfg.Dispatch.Enabled)

	require.NoError(t, cfg.Validate())
}

// TestLoad_DurationParsing tests that duration strings are parsed correctly.
func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.SweepInterval)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Dispatch.RunTimeout)
	assert.Equal(t, 24*time.Hour, cfg.RateLimit.Stats.TTL)
}

// TestLoad_EnvVarOverrides tests nested keys with the "__" separator.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER__PORT", "9090")
	t.Setenv("APP_SERVER__READ_TIMEOUT", "3s")
	t.Setenv("APP_RATE_LIMIT__SUBSCRIBE_LIMIT", "7")
	t.Setenv("APP_STORE__DRIVER", "sqlite")
	t.Setenv("APP_TELEMETRY__ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 7, cfg.RateLimit.SubscribeLimit)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.True(t, cfg.Telemetry.Enabled)
}

// TestLoad_LegacyEnvAliases tests the unprefixed variables of older deployments.
func TestLoad_LegacyEnvAliases(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_legacy")
	t.Setenv("EMAIL_FROM", `"Stoa <hello@stoa.example>"`)
	t.Setenv("APP_URL", "https://stoic.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "re_legacy", cfg.Email.APIKey)
	assert.Equal(t, "Stoa <hello@stoa.example>", cfg.Email.From)
	assert.Equal(t, "https://stoic.example", cfg.Dispatch.AppURL)
}

// TestLoad_PrefixedEnvWinsOverLegacy tests precedence between the two env sources.
func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_legacy")
	t.Setenv("APP_EMAIL__API_KEY", "re_new")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "re_new", cfg.Email.APIKey)
}

// TestLoad_ProfileFile tests that profile YAML overrides base YAML.
func TestLoad_ProfileFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "base.yaml"),
		[]byte("rate_limit:\n  window: 30s\nlog:\n  level: debug\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test.yaml"),
		[]byte("log:\n  level: warn\n"), 0o600))

	t.Chdir(dir)

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "daily-stoic", cfg.App.Name)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"APP_SERVER__PORT", "server.port"},
		{"APP_RATE_LIMIT__STATS__TRACK_KEYS", "rate_limit.stats.track_keys"},
		{"APP_DISPATCH__APP_URL", "dispatch.app_url"},
		{"APP_ENVIRONMENT", "environment"},
		{"APP_URL", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestNormalizeSender(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Daily Stoic <a@b.co>", "Daily Stoic <a@b.co>"},
		{`  "Daily Stoic <a@b.co>"  `, "Daily Stoic <a@b.co>"},
		{`'a@b.co'`, "a@b.co"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSender(tt.in))
		})
	}
}
