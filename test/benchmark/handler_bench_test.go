package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/email"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/store/memory"
	"github.com/jsamuelsen/daily-stoic/internal/app"
	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/ratelimit"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo)
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes probes and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with the
// store and gateway checks registered.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry()
	_ = registry.Register(memory.New())
	_ = registry.Register(&simpleHealthChecker{name: "resend"})

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	handler := handlers.NewHealthHandler(registry, buildInfo)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkSubscribeHandler measures a subscribe for a new address against
// the in-memory store.
func BenchmarkSubscribeHandler(b *testing.B) {
	handler := handlers.NewSubscriptionHandler(app.NewSubscriptionService(app.SubscriptionServiceConfig{
		Store:  memory.New(),
		Logger: discardLogger(),
	}))

	i := 0

	b.ReportAllocs()

	for b.Loop() {
		body := fmt.Sprintf(`{"email":"reader%d@stoa.example"}`, i)
		i++

		req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Subscribe(c)

		if w.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
}

// BenchmarkMiddlewareChain_Full measures the mutation route chain without
// the handler: recovery, IDs, rate limit and timeout.
func BenchmarkMiddlewareChain_Full(b *testing.B) {
	limiter, err := ratelimit.New(ratelimit.Config{Limit: 1 << 30, Window: time.Minute})
	if err != nil {
		b.Fatal(err)
	}

	logger := discardLogger()
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestID(), middleware.CorrelationID())
	router.POST("/subscribe",
		middleware.RateLimit(middleware.RateLimitConfig{Scope: "subscribe", Limiter: limiter, Logger: logger}),
		middleware.Timeout(5*time.Second),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	req := httptest.NewRequest(http.MethodPost, "/subscribe", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkLimiterAllow measures Allow under contention across many keys.
func BenchmarkLimiterAllow(b *testing.B) {
	limiter, err := ratelimit.New(ratelimit.Config{Limit: 5, Window: time.Minute, MaxKeys: 100_000})
	if err != nil {
		b.Fatal(err)
	}

	var seq atomic.Int64

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			limiter.Allow("10.0." + strconv.FormatInt(seq.Add(1)%4096, 10))
		}
	})
}

// BenchmarkCatalogForDate measures daily quote selection.
func BenchmarkCatalogForDate(b *testing.B) {
	catalog := domain.DefaultCatalog()
	day := time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)

	b.ReportAllocs()

	for b.Loop() {
		_ = catalog.ForDate(day)
		day = day.AddDate(0, 0, 1)
	}
}

// BenchmarkRender measures rendering one email.
func BenchmarkRender(b *testing.B) {
	renderer := email.MustNewRenderer()
	job := domain.DispatchJob{
		To:             "seneca@rome.example",
		Quote:          "We suffer more often in imagination than in reality.",
		Author:         "Seneca",
		DateLabel:      "Thursday, January 1, 2026",
		UnsubscribeURL: "https://stoic.example/unsubscribe?token=abc",
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := renderer.Render(job); err != nil {
			b.Fatal(err)
		}
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
