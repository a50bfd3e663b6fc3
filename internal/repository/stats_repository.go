package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

// recentMonths bounds the workouts-by-month series.
const recentMonths = 6

// StatsRepo runs the aggregate queries behind the dashboard.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// General returns workout counts for the most recent months that have any
// workout, oldest first, and the number of entries per muscle group.
func (r *StatsRepo) General(ctx context.Context, ownerID uint64) (model.GeneralStats, error) {
	out := model.GeneralStats{WorkoutsByMonth: []model.MonthCount{}, MuscleDist: []model.MuscleCount{}}

	const qMonths = `SELECT month, cnt FROM (
	                   SELECT substr(date, 1, 7) AS month, COUNT(*) AS cnt
	                   FROM workouts
	                   WHERE user_id = ?
	                   GROUP BY substr(date, 1, 7)
	                   ORDER BY month DESC
	                   LIMIT ?
	                 ) recent
	                 ORDER BY month ASC`
	rows, err := r.db.QueryContext(ctx, qMonths, ownerID, recentMonths)
	if err != nil {
		return out, fmt.Errorf("workouts by month: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m model.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return out, err
		}
		out.WorkoutsByMonth = append(out.WorkoutsByMonth, m)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	const qMuscles = `SELECT e.muscle_group, COUNT(*) AS cnt
	                  FROM workout_exercises we
	                  JOIN workouts w ON w.id = we.workout_id
	                  JOIN exercises e ON e.id = we.exercise_id
	                  WHERE w.user_id = ?
	                  GROUP BY e.muscle_group
	                  ORDER BY cnt DESC, e.muscle_group ASC`
	mrows, err := r.db.QueryContext(ctx, qMuscles, ownerID)
	if err != nil {
		return out, fmt.Errorf("muscle distribution: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var m model.MuscleCount
		if err := mrows.Scan(&m.MuscleGroup, &m.Count); err != nil {
			return out, err
		}
		out.MuscleDist = append(out.MuscleDist, m)
	}
	return out, mrows.Err()
}

// Progression returns, for each date the owner performed exerciseID, the
// heaviest weight recorded that day.  No history gives an empty slice.
func (r *StatsRepo) Progression(ctx context.Context, ownerID, exerciseID uint64) ([]model.ProgressionPoint, error) {
	const q = `SELECT w.date, MAX(we.weight)
	           FROM workout_exercises we
	           JOIN workouts w ON w.id = we.workout_id
	           WHERE w.user_id = ? AND we.exercise_id = ?
	           GROUP BY w.date
	           ORDER BY w.date ASC`
	rows, err := r.db.QueryContext(ctx, q, ownerID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("progression: %w", err)
	}
	defer rows.Close()

	out := []model.ProgressionPoint{}
	for rows.Next() {
		var p model.ProgressionPoint
		if err := rows.Scan(&p.Date, &p.MaxWeight); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
