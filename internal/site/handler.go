package site

import (
	"log/slog"
	"net/http"

	"github.com/eleven-am/blog-backend/internal/dto"
	"github.com/eleven-am/blog-backend/internal/shared"
	"github.com/eleven-am/blog-backend/internal/user"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group, m *user.Middleware) {
	g.GET("/settings", h.Get)
	g.PUT("/settings", h.Update, m.RequireAdmin)
}

// @Summary      Get site settings
// @Tags         site
// @Produce      json
// @Success      200  {object}  site.Settings
// @Router       /site/settings [get]
func (h *Handler) Get(c echo.Context) error {
	settings, err := h.store.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		return shared.InternalError("settings_failed", "failed to load settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// @Summary      Update site settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  site.Settings
// @Router       /site/settings [put]
func (h *Handler) Update(c echo.Context) error {
	var req dto.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	ctx := c.Request().Context()
	settings, err := h.store.Get(ctx)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		return shared.InternalError("settings_failed", "failed to load settings")
	}

	if req.SiteName != "" {
		settings.SiteName = req.SiteName
	}
	settings.Telegram = req.Telegram
	settings.Instagram = req.Instagram
	settings.GitHub = req.GitHub
	settings.Twitter = req.Twitter
	settings.YouTube = req.YouTube

	if err := h.store.Save(ctx, settings); err != nil {
		h.logger.Error("failed to save settings", "error", err)
		return shared.InternalError("settings_failed", "failed to save settings")
	}

	return c.JSON(http.StatusOK, settings)
}
