// Package api assembles the HTTP surface: the Echo server, middleware,
// operational endpoints, and the versioned Huma API.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/ebay-watcher/internal/api/handlers"
	"github.com/donaldgifford/ebay-watcher/internal/api/middleware"
	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	"github.com/donaldgifford/ebay-watcher/internal/monitor"
)

// RouterConfig carries the router's collaborators.
type RouterConfig struct {
	Registry    *monitor.Registry
	Snapshots   *monitor.SnapshotStore
	RateLimiter *ebay.RateLimiter
	Store       handlers.Pinger
	Logger      *slog.Logger
	Version     string
}

// NewRouter builds the Echo server with all routes registered. The caller
// owns startup and shutdown.
func NewRouter(cfg RouterConfig) *echo.Echo {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		middleware.RequestLog(logger),
		middleware.Recovery(logger),
		middleware.Metrics(),
	)

	health := handlers.NewHealthHandler(cfg.Store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaAPI := humaecho.New(e, huma.DefaultConfig("ebay-watcher", version))
	handlers.RegisterSearchesRoutes(humaAPI, handlers.NewSearchesHandler(cfg.Registry))
	handlers.RegisterRefreshRoutes(humaAPI, handlers.NewRefreshHandler(cfg.Registry))
	handlers.RegisterSnapshotsRoutes(humaAPI, handlers.NewSnapshotsHandler(cfg.Snapshots))
	handlers.RegisterStatusRoutes(humaAPI, handlers.NewStatusHandler(cfg.Registry))
	handlers.RegisterQuotaRoutes(humaAPI, handlers.NewQuotaHandler(cfg.RateLimiter))

	return e
}
