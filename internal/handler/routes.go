package handler

import (
	"github.com/labstack/echo/v4"

	"author-frontend/internal/config"
	"author-frontend/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// The metrics endpoint is mounted only when enabled in config and m is non-nil.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, home *HomeHandler, health *HealthHandler, m *metrics.Metrics) {
	e.GET("/", home.Home)

	e.GET("/healthz", health.Healthz)
	e.GET("/status", health.Status)

	if cfg.Server.StaticDir != "" {
		e.Static("/static", cfg.Server.StaticDir)
	}

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
	}
}
