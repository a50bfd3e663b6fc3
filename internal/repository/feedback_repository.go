package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

// FeedbackRepo reads and writes exercise ratings.
type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

const feedbackSelect = `SELECT f.id, f.user_id, f.exercise_id, f.rating, f.comment, f.created_at, u.name, u.surname
	FROM feedback f
	JOIN users u ON u.id = f.user_id`

// ListByExercise returns the feedback on an exercise visible to viewerID,
// newest first.  An invisible exercise yields an empty list.
func (r *FeedbackRepo) ListByExercise(ctx context.Context, exerciseID, viewerID uint64) ([]model.Feedback, error) {
	q := feedbackSelect + `
	JOIN exercises e ON e.id = f.exercise_id
	WHERE f.exercise_id = ? AND ` + exerciseVisible + `
	ORDER BY f.created_at DESC, f.id DESC`
	rows, err := r.db.QueryContext(ctx, q, exerciseID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	out := []model.Feedback{}
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.ExerciseID, &f.Rating, &f.Comment, &f.CreatedAt, &f.UserName, &f.UserSurname); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create inserts f and reloads it with the author's name.  The caller is
// responsible for checking that the exercise is visible to the author.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO feedback (user_id, exercise_id, rating, comment) VALUES (?, ?, ?, ?)",
		f.UserID, f.ExerciseID, f.Rating, f.Comment)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx, feedbackSelect+" WHERE f.id = ?", id)
	if err := row.Scan(&f.ID, &f.UserID, &f.ExerciseID, &f.Rating, &f.Comment, &f.CreatedAt, &f.UserName, &f.UserSurname); err != nil {
		return fmt.Errorf("reload feedback: %w", err)
	}
	return nil
}

// Delete removes feedback written by authorID.  Someone else's feedback is
// reported as ErrFeedbackNotFound and left untouched.
func (r *FeedbackRepo) Delete(ctx context.Context, id, authorID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = ? AND user_id = ?", id, authorID)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
