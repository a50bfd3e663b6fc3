package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/repository"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	Stats *repository.StatsRepo
	Log   *zap.Logger
}

func NewStatsHandler(s *repository.StatsRepo, log *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: s, Log: log}
}

// Get handles GET /api/stats?type=general|progression&exercise_id=.
func (h *StatsHandler) Get(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	switch c.QueryParam("type") {
	case "general":
		g, err := h.Stats.General(ctx, me.UserID)
		if err != nil {
			return serverError(c, h.Log, "general stats failed", err)
		}
		return c.JSON(http.StatusOK, g)
	case "progression":
		exerciseID, ok := parseID(c.QueryParam("exercise_id"))
		if !ok {
			return badRequest(c, "exercise_id is required")
		}
		points, err := h.Stats.Progression(ctx, me.UserID, exerciseID)
		if err != nil {
			return serverError(c, h.Log, "progression stats failed", err)
		}
		return c.JSON(http.StatusOK, points)
	default:
		return badRequest(c, "type must be general or progression")
	}
}
