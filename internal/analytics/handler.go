package analytics

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eleven-am/blog-backend/internal/dto"
	"github.com/eleven-am/blog-backend/internal/shared"
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

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/stats", h.Stats)
}

// Middleware records a page view for every request except static assets
// and the stats API itself. Tracking failures never fail the request.
func (h *Handler) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !strings.HasPrefix(path, "/assets") && !strings.HasPrefix(path, "/v1/dashboard") {
				if err := h.store.RecordPageView(c.Request().Context(), c.RealIP()); err != nil {
					h.logger.Warn("failed to record page view", "error", err)
				}
			}
			return next(c)
		}
	}
}

// @Summary      Dashboard traffic stats
// @Description  Page views and unique visitors for the last 7 days
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /dashboard/stats [get]
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.store.Stats(c.Request().Context(), 7)
	if err != nil {
		h.logger.Error("failed to load stats", "error", err)
		return shared.InternalError("stats_failed", "failed to load stats")
	}

	resp := dto.StatsResponse{
		Labels:   make([]string, 0, len(stats)),
		Views:    make([]int64, 0, len(stats)),
		Visitors: make([]int64, 0, len(stats)),
	}
	for _, day := range stats {
		label := day.Date
		if t, err := time.Parse("2006-01-02", day.Date); err == nil {
			label = t.Format("02-Jan")
		}
		resp.Labels = append(resp.Labels, label)
		resp.Views = append(resp.Views, day.PageViews)
		resp.Visitors = append(resp.Visitors, day.UniqueVisitors)
		resp.TotalViews += day.PageViews
		resp.TotalVisitors += day.UniqueVisitors
	}

	return c.JSON(http.StatusOK, resp)
}
