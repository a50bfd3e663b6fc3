package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

// ExerciseRepo encapsulates queries on the exercises table.  Reads are
// limited to rows the viewer may see: active and either public or owned by
// the viewer.  Writes are limited to rows owned by the caller.
type ExerciseRepo struct {
	db *sql.DB
}

func NewExerciseRepo(db *sql.DB) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

const exerciseSelect = `SELECT e.id, e.user_id, e.name, e.muscle_group, e.description, e.image_url,
	       e.is_public, e.status, e.created_at, u.name
	FROM exercises e
	JOIN users u ON u.id = e.user_id`

const exerciseVisible = "e.status = 'active' AND (e.is_public = 1 OR e.user_id = ?)"

// likePattern turns a search term into a LIKE pattern matching it as a
// substring.  '!' is the escape character.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// List returns the exercises visible to viewerID ordered by name.  A
// non-empty query keeps rows whose name or muscle group contains it,
// ignoring case.
func (r *ExerciseRepo) List(ctx context.Context, viewerID uint64, query string) ([]model.Exercise, error) {
	q := exerciseSelect + " WHERE " + exerciseVisible
	args := []any{viewerID}
	if query = strings.TrimSpace(query); query != "" {
		q += " AND (LOWER(e.name) LIKE ? ESCAPE '!' OR LOWER(e.muscle_group) LIKE ? ESCAPE '!')"
		p := likePattern(query)
		args = append(args, p, p)
	}
	q += " ORDER BY e.name ASC, e.id ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	out := []model.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetVisible returns one exercise if viewerID may see it, or
// ErrExerciseNotFound.
func (r *ExerciseRepo) GetVisible(ctx context.Context, id, viewerID uint64) (*model.Exercise, error) {
	row := r.db.QueryRowContext(ctx, exerciseSelect+" WHERE e.id = ? AND "+exerciseVisible, id, viewerID)
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	return e, err
}

func scanExercise(row rowScanner) (*model.Exercise, error) {
	var e model.Exercise
	err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &e.MuscleGroup, &e.Description, &e.ImageURL,
		&e.IsPublic, &e.Status, &e.CreatedAt, &e.CreatorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan exercise: %w", err)
	}
	return &e, nil
}

// Create inserts e owned by e.OwnerID and reloads it so defaults and the
// creator name are populated.
func (r *ExerciseRepo) Create(ctx context.Context, e *model.Exercise) error {
	const q = `INSERT INTO exercises (user_id, name, muscle_group, description, image_url, is_public)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.OwnerID, e.Name, e.MuscleGroup, e.Description, e.ImageURL, e.IsPublic)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetVisible(ctx, uint64(id), e.OwnerID)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// Update overwrites the editable columns of an active exercise owned by
// e.OwnerID.  ErrForbidden covers both a missing row and someone else's row.
func (r *ExerciseRepo) Update(ctx context.Context, e *model.Exercise) error {
	const q = `UPDATE exercises
	           SET name = ?, muscle_group = ?, description = ?, image_url = ?, is_public = ?
	           WHERE id = ? AND user_id = ? AND status = 'active'`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.MuscleGroup, e.Description, e.ImageURL, e.IsPublic, e.ID, e.OwnerID)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrForbidden
	}
	updated, err := r.GetVisible(ctx, e.ID, e.OwnerID)
	if err != nil {
		return err
	}
	*e = *updated
	return nil
}

// Archive soft-deletes an exercise after checking that ownerID owns it and
// it is still active.  Workout entries keep pointing at the archived row.
func (r *ExerciseRepo) Archive(ctx context.Context, id, ownerID uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM exercises WHERE id = ? AND user_id = ? AND status = 'active'", id, ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("check exercise owner: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE exercises SET status = ? WHERE id = ? AND user_id = ?", model.ExerciseArchived, id, ownerID); err != nil {
		return fmt.Errorf("archive exercise: %w", err)
	}
	return nil
}
