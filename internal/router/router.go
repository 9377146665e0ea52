package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/jonghyochu-star/shots-radar/internal/handler"
	"github.com/jonghyochu-star/shots-radar/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Trend  *handler.TrendHandler
	Stats  *handler.StatsHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health and metrics (outside the API group and its rate limits)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	trendLimit := middleware.NewTrendRateLimiter()
	api.Get("/trend", h.Trend.GetTrend, trendLimit.Handler())
	api.Get("/trend/:category", h.Trend.GetCategory, trendLimit.Handler())

	api.Get("/stats", h.Stats.GetStats, middleware.NewStatsRateLimiter().Handler())
}
