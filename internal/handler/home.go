package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"author-frontend/internal/config"
	"author-frontend/internal/model"
	"author-frontend/internal/service"
)

// AuthorFetcher loads the upstream author document.
type AuthorFetcher interface {
	Fetch(ctx context.Context) (any, error)
}

var _ AuthorFetcher = (*service.AuthorService)(nil)

// HomeHandler serves the author page.
type HomeHandler struct {
	authors  AuthorFetcher
	template string
	dataKey  string
	logger   *slog.Logger
}

// NewHomeHandler creates a HomeHandler.
func NewHomeHandler(svc *service.AuthorService, cfg *config.Config, logger *slog.Logger) *HomeHandler {
	return newHomeHandler(svc, cfg, logger)
}

func newHomeHandler(f AuthorFetcher, cfg *config.Config, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		authors:  f,
		template: cfg.Templates.Home,
		dataKey:  cfg.Templates.DataKey,
		logger:   logger.With("component", "home_handler"),
	}
}

// Home fetches the author document once and renders it into the home template.
// Failures are not translated here: they go to Echo's HTTP error handler,
// which answers 500 (with the error text when the server runs in debug mode).
func (h *HomeHandler) Home(c echo.Context) error {
	payload, err := h.authors.Fetch(c.Request().Context())
	if err != nil {
		h.logger.Error("fetch author", "err", err)
		return err
	}

	if err := c.Render(http.StatusOK, h.template, model.NewHomePage(h.dataKey, payload)); err != nil {
		h.logger.Error("render home", "err", err, "template", h.template)
		return err
	}
	return nil
}
