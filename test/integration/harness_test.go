//go:build integration

package integration

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/jsamuelsen/daily-stoic/internal/adapters/http"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/email"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-stoic/internal/app"
	"github.com/jsamuelsen/daily-stoic/internal/bootstrap"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/platform/metrics"
	"github.com/jsamuelsen/daily-stoic/internal/platform/ratelimit"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

const (
	testAPIKey = "re_integration_key"
	testAppURL = "http://stoic.example"
)

var unsubscribeLink = regexp.MustCompile(regexp.QuoteMeta(testAppURL) + `(/unsubscribe\?token=\S+)`)

// sentEmail is the provider request body as received by fakeResend.
type sentEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// fakeResend is an in-process stand-in for the Resend /emails endpoint.
type fakeResend struct {
	server   *httptest.Server
	seq      atomic.Int64
	attempts atomic.Int64

	mu     sync.Mutex
	sent   []sentEmail
	reject map[string]int
}

func newFakeResend() *fakeResend {
	f := &fakeResend{reject: make(map[string]int)}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))

	return f
}

func (f *fakeResend) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost || r.URL.Path != "/emails" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"statusCode":401,"name":"invalid_api_key","message":"API key is invalid"}`)

		return
	}

	f.attempts.Add(1)

	var req sentEmail
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.To) != 1 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	status, rejected := f.reject[req.To[0]]
	if !rejected {
		f.sent = append(f.sent, req)
	}
	f.mu.Unlock()

	if rejected {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"statusCode":%d,"name":"validation_error","message":"recipient rejected"}`, status)

		return
	}

	_, _ = fmt.Fprintf(w, `{"id":"msg-%d"}`, f.seq.Add(1))
}

func (f *fakeResend) rejectRecipient(to string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reject[to] = status
}

func (f *fakeResend) emails() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]sentEmail(nil), f.sent...)
}

func (f *fakeResend) emailTo(to string) (sentEmail, bool) {
	sent := f.emails()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To[0] == to {
			return sent[i], true
		}
	}

	return sentEmail{}, false
}

// unsubscribePath extracts the path and query of the unsubscribe link in
// the most recent email to the recipient.
func (f *fakeResend) unsubscribePath(to string) (string, error) {
	e, ok := f.emailTo(to)
	if !ok {
		return "", fmt.Errorf("no email was sent to %s", to)
	}

	m := unsubscribeLink.FindStringSubmatch(e.Text)
	if m == nil {
		return "", fmt.Errorf("email to %s has no unsubscribe link", to)
	}

	return m[1], nil
}

// harnessOptions tunes newHarness.
type harnessOptions struct {
	StoreDriver      string
	SubscribeLimit   int
	UnsubscribeLimit int
	Concurrency      int
	MaxFailures      int
}

// harness runs the full HTTP stack in-process against a fake provider.
type harness struct {
	baseURL    string
	server     *httptest.Server
	resend     *fakeResend
	store      bootstrap.Store
	dispatcher *app.DispatchService
	registry   *prometheus.Registry

	closers []func() error
}

func newHarness(opts harnessOptions) (*harness, error) {
	if opts.StoreDriver == "" {
		opts.StoreDriver = config.StoreDriverMemory
	}

	if opts.SubscribeLimit == 0 {
		opts.SubscribeLimit = 100
	}

	if opts.UnsubscribeLimit == 0 {
		opts.UnsubscribeLimit = 100
	}

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{resend: newFakeResend(), registry: prometheus.NewRegistry()}
	h.closers = append(h.closers, func() error { h.resend.server.Close(); return nil })

	dataDir, err := os.MkdirTemp("", "daily-stoic-it-*")
	if err != nil {
		h.Close()
		return nil, err
	}

	h.closers = append(h.closers, func() error { return os.RemoveAll(dataDir) })

	cfg := testConfig(h.resend.server.URL, dataDir, opts)

	store, closeStore, err := bootstrap.OpenStore(context.Background(), cfg.Store, logger)
	if err != nil {
		h.Close()
		return nil, err
	}

	h.store = store
	h.closers = append(h.closers, closeStore)

	gateway, err := bootstrap.NewGateway(cfg, logger)
	if err != nil {
		h.Close()
		return nil, err
	}

	m := metrics.New(h.registry)

	h.dispatcher = app.NewDispatchService(app.DispatchServiceConfig{
		Store:       store,
		Gateway:     gateway,
		Renderer:    email.MustNewRenderer(),
		AppURL:      cfg.Dispatch.AppURL,
		Concurrency: cfg.Dispatch.Concurrency,
		Metrics:     m,
		Logger:      logger,
	})

	registry := ports.NewHealthRegistry()
	_ = registry.Register(store)
	_ = registry.Register(gateway)

	limit := func(scope string, n int) (gin.HandlerFunc, error) {
		l, err := ratelimit.New(ratelimit.Config{Limit: n, Window: time.Minute})
		if err != nil {
			return nil, err
		}

		return middleware.RateLimit(middleware.RateLimitConfig{Scope: scope, Limiter: l, Metrics: m, Logger: logger}), nil
	}

	subscribeLimit, err := limit("subscribe", opts.SubscribeLimit)
	if err != nil {
		h.Close()
		return nil, err
	}

	unsubscribeLimit, err := limit("unsubscribe", opts.UnsubscribeLimit)
	if err != nil {
		h.Close()
		return nil, err
	}

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:    logger,
		AppConfig: &cfg.App,
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "now"),
			handlers.WithGatherer(h.registry)),
		SubscriptionHandler: handlers.NewSubscriptionHandler(app.NewSubscriptionService(app.SubscriptionServiceConfig{
			Store:   store,
			Metrics: m,
			Logger:  logger,
		})),
		SubscribeLimit:   subscribeLimit,
		UnsubscribeLimit: unsubscribeLimit,
		Timeout:          5 * time.Second,
	})

	h.server = httptest.NewServer(engine)
	h.baseURL = h.server.URL
	h.closers = append(h.closers, func() error { h.server.Close(); return nil })

	return h, nil
}

func testConfig(resendURL, dataDir string, opts harnessOptions) *config.Config {
	cfg := &config.Config{
		App: config.AppConfig{Name: "daily-stoic-integration", Version: "test", Environment: "test"},
		Client: config.ClientConfig{
			Timeout: 5 * time.Second,
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   cmp.Or(opts.MaxFailures, 50),
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
			Transport: config.TransportConfig{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		Store: config.StoreConfig{Driver: opts.StoreDriver},
		Email: config.EmailConfig{
			APIKey:  testAPIKey,
			From:    "Daily Stoic <daily@stoic.example>",
			BaseURL: resendURL,
			Name:    "resend",
		},
		Dispatch: config.DispatchConfig{
			AppURL:      testAppURL,
			Concurrency: max(opts.Concurrency, 1),
		},
	}

	if opts.StoreDriver == config.StoreDriverSQLite {
		cfg.Store.SQLite = config.SQLiteConfig{
			Path:        filepath.Join(dataDir, "subscribers.db"),
			BusyTimeout: 5 * time.Second,
		}
	}

	return cfg
}

// Close releases every resource in reverse order of acquisition.
func (h *harness) Close() {
	var errs []error

	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = append(errs, h.closers[i]())
	}

	if err := errors.Join(errs...); err != nil {
		slog.Default().Warn("harness close", slog.Any("error", err))
	}
}
