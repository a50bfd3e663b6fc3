package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
)

// ExerciseHandler serves the exercise catalogue.
type ExerciseHandler struct {
	Exercises *repository.ExerciseRepo
	Log       *zap.Logger
}

func NewExerciseHandler(r *repository.ExerciseRepo, log *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{Exercises: r, Log: log}
}

type exerciseReq struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsPublic    bool   `json:"is_public"`
}

func (r exerciseReq) toModel(id, ownerID uint64) *model.Exercise {
	return &model.Exercise{
		ID:          id,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(r.Name),
		MuscleGroup: strings.TrimSpace(r.MuscleGroup),
		Description: r.Description,
		ImageURL:    strings.TrimSpace(r.ImageURL),
		IsPublic:    r.IsPublic,
	}
}

// List handles GET /api/exercises?q=.
func (h *ExerciseHandler) List(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Exercises.List(ctx, me.UserID, c.QueryParam("q"))
	if err != nil {
		return serverError(c, h.Log, "list exercises failed", err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /api/exercises/:id.
func (h *ExerciseHandler) Get(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid exercise id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Exercises.GetVisible(ctx, id, me.UserID)
	if errors.Is(err, repository.ErrExerciseNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "exercise not found"})
	}
	if err != nil {
		return serverError(c, h.Log, "get exercise failed", err)
	}
	return c.JSON(http.StatusOK, e)
}

// Create handles POST /api/exercises.
func (h *ExerciseHandler) Create(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req exerciseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	e := req.toModel(0, me.UserID)
	if e.Name == "" {
		return badRequest(c, "name is required")
	}
	if e.MuscleGroup == "" {
		e.MuscleGroup = model.DefaultMuscleGroup
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Exercises.Create(ctx, e); err != nil {
		return serverError(c, h.Log, "create exercise failed", err)
	}
	return c.JSON(http.StatusCreated, e)
}

// Update handles PUT /api/exercises/:id.  Only the owner may edit.
func (h *ExerciseHandler) Update(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid exercise id")
	}
	var req exerciseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	e := req.toModel(id, me.UserID)
	if e.Name == "" {
		return badRequest(c, "name is required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Exercises.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "exercise not found or not owned by you"})
		}
		return serverError(c, h.Log, "update exercise failed", err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /api/exercises/:id by archiving the exercise.
func (h *ExerciseHandler) Delete(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid exercise id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Exercises.Archive(ctx, id, me.UserID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "exercise not found or not owned by you"})
		}
		return serverError(c, h.Log, "archive exercise failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "exercise deleted"})
}
