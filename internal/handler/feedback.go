package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
)

// FeedbackHandler serves ratings left on exercises.
type FeedbackHandler struct {
	Feedback  *repository.FeedbackRepo
	Exercises *repository.ExerciseRepo
	Log       *zap.Logger
}

func NewFeedbackHandler(f *repository.FeedbackRepo, e *repository.ExerciseRepo, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{Feedback: f, Exercises: e, Log: log}
}

type feedbackReq struct {
	ExerciseID uint64 `json:"exercise_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// List handles GET /api/feedback?exercise_id=.
func (h *FeedbackHandler) List(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	exerciseID, ok := parseID(c.QueryParam("exercise_id"))
	if !ok {
		return badRequest(c, "exercise_id is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Feedback.ListByExercise(ctx, exerciseID, me.UserID)
	if err != nil {
		return serverError(c, h.Log, "list feedback failed", err)
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /api/feedback.  The exercise must be visible to the
// author and still active.
func (h *FeedbackHandler) Create(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ExerciseID == 0 || req.Rating == 0 {
		return badRequest(c, "exercise_id and rating are required")
	}
	if !validID(req.ExerciseID) {
		return badRequest(c, "invalid exercise_id")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return badRequest(c, "rating must be between 1 and 5")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Exercises.GetVisible(ctx, req.ExerciseID, me.UserID); err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exercise not found"})
		}
		return serverError(c, h.Log, "check exercise failed", err)
	}

	f := &model.Feedback{UserID: me.UserID, ExerciseID: req.ExerciseID, Rating: req.Rating, Comment: req.Comment}
	if err := h.Feedback.Create(ctx, f); err != nil {
		return serverError(c, h.Log, "create feedback failed", err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Delete handles DELETE /api/feedback/:id.  Only the author may delete.
func (h *FeedbackHandler) Delete(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid feedback id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Feedback.Delete(ctx, id, me.UserID); err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feedback not found"})
		}
		return serverError(c, h.Log, "delete feedback failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "feedback deleted"})
}
