package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// APIPrefix is the versioned mount point of the subscription routes.
const APIPrefix = "/api/v1"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger *slog.Logger

	AppConfig *config.AppConfig

	HealthHandler       *handlers.HealthHandler
	SubscriptionHandler *handlers.SubscriptionHandler

	// SubscribeLimit and UnsubscribeLimit guard the mutation routes. The same
	// handlers serve both mounts so a client shares one budget across them.
	SubscribeLimit   gin.HandlerFunc
	UnsubscribeLimit gin.HandlerFunc

	// Timeout bounds subscription requests. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry
//  5. Logging (skips /-/ endpoints)
//
// Route groups:
//   - /-/ health, build and metrics, no timeout
//   - / and /api/v1 subscription endpoints behind the rate limiters
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	serviceName := "daily-stoic"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.SubscriptionHandler == nil {
		return
	}

	for _, prefix := range []string{"", APIPrefix} {
		rg := engine.Group(prefix)
		if cfg.Timeout > 0 {
			rg.Use(middleware.Timeout(cfg.Timeout))
		}

		cfg.SubscriptionHandler.RegisterRoutes(rg, cfg.SubscribeLimit, cfg.UnsubscribeLimit)
	}
}
