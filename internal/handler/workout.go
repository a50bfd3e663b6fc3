package handler

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/service"
)

const dateLayout = "2006-01-02"

// WorkoutHandler serves the training log.
type WorkoutHandler struct {
	Workouts  *repository.WorkoutRepo
	Publisher service.Publisher
	Log       *zap.Logger
}

func NewWorkoutHandler(w *repository.WorkoutRepo, p service.Publisher, log *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{Workouts: w, Publisher: p, Log: log}
}

type workoutEntryReq struct {
	ExerciseID *uint64 `json:"exercise_id"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	RestTime   int     `json:"rest_time"`
	Notes      string  `json:"notes"`
}

type workoutReq struct {
	Name      string            `json:"name"`
	Date      string            `json:"date"`
	Notes     string            `json:"notes"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Exercises []workoutEntryReq `json:"exercises"`
}

// parse validates the body and converts it to model values.
func (r workoutReq) parse(id, ownerID uint64) (*model.Workout, []model.WorkoutExercise, string) {
	name, date := strings.TrimSpace(r.Name), strings.TrimSpace(r.Date)
	if name == "" || date == "" {
		return nil, nil, "name and date are required"
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, nil, "date must be YYYY-MM-DD"
	}
	w := &model.Workout{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Date:      date,
		Notes:     r.Notes,
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
	}
	if len(w.StartTime) > 8 || len(w.EndTime) > 8 {
		return nil, nil, "start_time and end_time must be HH:MM or HH:MM:SS"
	}
	entries := make([]model.WorkoutExercise, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		if e.Sets < 0 || e.Reps < 0 || e.Weight < 0 || e.RestTime < 0 {
			return nil, nil, "sets, reps, weight and rest_time must not be negative"
		}
		if e.ExerciseID != nil && *e.ExerciseID > math.MaxInt64 {
			return nil, nil, "invalid exercise_id"
		}
		entries = append(entries, model.WorkoutExercise{
			ExerciseID: e.ExerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Weight:     e.Weight,
			RestTime:   e.RestTime,
			Notes:      e.Notes,
		})
	}
	return w, entries, ""
}

// List handles GET /api/workouts.
func (h *WorkoutHandler) List(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Workouts.List(ctx, me.UserID)
	if err != nil {
		return serverError(c, h.Log, "list workouts failed", err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /api/workouts/:id.
func (h *WorkoutHandler) Get(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid workout id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Workouts.Get(ctx, id, me.UserID)
	if errors.Is(err, repository.ErrWorkoutNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
	}
	if err != nil {
		return serverError(c, h.Log, "get workout failed", err)
	}
	return c.JSON(http.StatusOK, d)
}

// Create handles POST /api/workouts and announces the new workout.
func (h *WorkoutHandler) Create(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req workoutReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	w, entries, msg := req.parse(0, me.UserID)
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Workouts.Create(ctx, w, entries); err != nil {
		if errors.Is(err, repository.ErrUnknownExercise) {
			return badRequest(c, "unknown exercise")
		}
		return serverError(c, h.Log, "create workout failed", err)
	}

	h.publishLogged(c, w, entries)
	return c.JSON(http.StatusCreated, echo.Map{"message": "workout created", "id": w.ID, "workout": w})
}

func (h *WorkoutHandler) publishLogged(c echo.Context, w *model.Workout, entries []model.WorkoutExercise) {
	ev := queue.WorkoutLoggedEvent{
		WorkoutID: w.ID,
		UserID:    w.OwnerID,
		Name:      w.Name,
		Date:      w.Date,
		LoggedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, e := range entries {
		if e.ExerciseID == nil || *e.ExerciseID == 0 {
			continue
		}
		ev.Entries++
		ev.TotalSets += e.Sets
	}
	if err := h.Publisher.PublishWorkoutLogged(c.Request().Context(), ev); err != nil {
		h.Log.Warn("publish workout.logged failed", zap.Uint64("workout_id", w.ID), zap.Error(err))
	}
}

// Update handles PUT /api/workouts/:id, replacing the header and the
// full entry set.
func (h *WorkoutHandler) Update(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid workout id")
	}
	var req workoutReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	w, entries, msg := req.parse(id, me.UserID)
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	switch err := h.Workouts.Replace(ctx, w, entries); {
	case errors.Is(err, repository.ErrWorkoutNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
	case errors.Is(err, repository.ErrUnknownExercise):
		return badRequest(c, "unknown exercise")
	case err != nil:
		return serverError(c, h.Log, "update workout failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "workout updated"})
}

// Delete handles DELETE /api/workouts/:id.
func (h *WorkoutHandler) Delete(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid workout id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Workouts.Delete(ctx, id, me.UserID); err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
		}
		return serverError(c, h.Log, "delete workout failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "workout deleted"})
}
