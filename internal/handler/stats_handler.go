package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medtrack/internal/service"
)

// StatsHandler serves dashboard counters.
type StatsHandler struct {
	svc service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Summary godoc
// @Summary Test counters for the current user
// @Tags stats
// @Produce json
// @Security CookieAuth
// @Success 200 {object} model.TestStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/tests/stats [get]
func (h *StatsHandler) Summary(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.Summary(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
