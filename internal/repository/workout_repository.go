package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/fitness-tracker/internal/database"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

// WorkoutRepo stores workouts together with their exercise entries.  The
// header row and its entries are always written in one transaction.
type WorkoutRepo struct {
	db *sql.DB
}

func NewWorkoutRepo(db *sql.DB) *WorkoutRepo { return &WorkoutRepo{db: db} }

const workoutColumns = "id, user_id, name, date, notes, start_time, end_time, created_at"

func scanWorkout(row rowScanner) (*model.Workout, error) {
	var w model.Workout
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Date, &w.Notes, &w.StartTime, &w.EndTime, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns the owner's workouts, most recent date first.
func (r *WorkoutRepo) List(ctx context.Context, ownerID uint64) ([]model.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+workoutColumns+" FROM workouts WHERE user_id = ? ORDER BY date DESC, id DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	out := []model.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// Get loads one workout owned by ownerID with its entries in insertion
// order.
func (r *WorkoutRepo) Get(ctx context.Context, id, ownerID uint64) (*model.WorkoutDetail, error) {
	w, err := scanWorkout(r.db.QueryRowContext(ctx,
		"SELECT "+workoutColumns+" FROM workouts WHERE id = ? AND user_id = ?", id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	const q = `SELECT we.id, we.workout_id, we.exercise_id, e.name, we.sets, we.reps, we.weight, we.rest_time, we.notes
	           FROM workout_exercises we
	           LEFT JOIN exercises e ON e.id = we.exercise_id
	           WHERE we.workout_id = ?
	           ORDER BY we.id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("list workout entries: %w", err)
	}
	defer rows.Close()

	detail := &model.WorkoutDetail{Workout: *w, Exercises: []model.WorkoutExercise{}}
	for rows.Next() {
		var (
			we         model.WorkoutExercise
			exerciseID sql.NullInt64
			name       sql.NullString
		)
		if err := rows.Scan(&we.ID, &we.WorkoutID, &exerciseID, &name, &we.Sets, &we.Reps, &we.Weight, &we.RestTime, &we.Notes); err != nil {
			return nil, fmt.Errorf("scan workout entry: %w", err)
		}
		if exerciseID.Valid {
			v := uint64(exerciseID.Int64)
			we.ExerciseID = &v
		}
		if name.Valid {
			we.ExerciseName = &name.String
		}
		detail.Exercises = append(detail.Exercises, we)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

// Create inserts w and its entries.  On success w.ID and w.CreatedAt are set.
func (r *WorkoutRepo) Create(ctx context.Context, w *model.Workout, entries []model.WorkoutExercise) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `INSERT INTO workouts (user_id, name, date, notes, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, w.OwnerID, w.Name, w.Date, w.Notes, w.StartTime, w.EndTime)
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)

	if err := insertEntriesTx(ctx, tx, w.ID, w.OwnerID, entries); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, "SELECT created_at FROM workouts WHERE id = ?", w.ID).Scan(&w.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace overwrites the header of a workout owned by w.OwnerID and swaps
// its entry set for entries.  ErrWorkoutNotFound is returned, and nothing
// changes, when the workout is missing or belongs to someone else.
func (r *WorkoutRepo) Replace(ctx context.Context, w *model.Workout, entries []model.WorkoutExercise) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `UPDATE workouts SET name = ?, date = ?, notes = ?, start_time = ?, end_time = ?
	           WHERE id = ? AND user_id = ?`
	res, err := tx.ExecContext(ctx, q, w.Name, w.Date, w.Notes, w.StartTime, w.EndTime, w.ID, w.OwnerID)
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWorkoutNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM workout_exercises WHERE workout_id = ?", w.ID); err != nil {
		return fmt.Errorf("clear workout entries: %w", err)
	}
	if err := insertEntriesTx(ctx, tx, w.ID, w.OwnerID, entries); err != nil {
		return err
	}
	return tx.Commit()
}

// insertEntriesTx writes the entries that name an exercise; the rest are
// skipped.  Every referenced exercise must be public or owned by ownerID.
func insertEntriesTx(ctx context.Context, tx *sql.Tx, workoutID, ownerID uint64, entries []model.WorkoutExercise) error {
	const qCheck = "SELECT 1 FROM exercises WHERE id = ? AND (is_public = 1 OR user_id = ?)"
	const qInsert = `INSERT INTO workout_exercises (workout_id, exercise_id, sets, reps, weight, rest_time, notes)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		if e.ExerciseID == nil || *e.ExerciseID == 0 {
			continue
		}
		var one int
		err := tx.QueryRowContext(ctx, qCheck, *e.ExerciseID, ownerID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownExercise
		}
		if err != nil {
			return fmt.Errorf("check exercise: %w", err)
		}
		rest := e.RestTime
		if rest <= 0 {
			rest = model.DefaultRestSeconds
		}
		if _, err := tx.ExecContext(ctx, qInsert, workoutID, *e.ExerciseID, e.Sets, e.Reps, e.Weight, rest, e.Notes); err != nil {
			if database.IsForeignKeyViolation(err) {
				return ErrUnknownExercise
			}
			return fmt.Errorf("insert workout entry: %w", err)
		}
	}
	return nil
}

// Delete removes a workout owned by ownerID; its entries cascade.
func (r *WorkoutRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM workouts WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}
