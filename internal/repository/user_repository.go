package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/fitness-tracker/internal/database"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/utils"
)

const userColumns = "id, name, surname, email, password_hash, country, profile_image, created_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail is applied to every email before it reaches the database.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes password, inserts u and fills in its ID and CreatedAt.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Email = NormalizeEmail(u.Email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, surname, email, password_hash, country) VALUES (?,?,?,?,?)",
		u.Name, u.Surname, u.Email, hash, u.Country)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", NormalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.Country, &u.ProfileImage, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// UpdateProfile writes the editable profile columns of u.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name = ?, surname = ?, country = ?, profile_image = ? WHERE id = ?",
		u.Name, u.Surname, u.Country, u.ProfileImage, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword stores a new bcrypt hash for user id.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return r.setPassword(ctx, "id = ?", id, hash)
}

// UpdatePasswordByEmail is used by the reset flow, which only knows the email.
func (r *UserRepo) UpdatePasswordByEmail(ctx context.Context, email, hash string) error {
	return r.setPassword(ctx, "email = ?", NormalizeEmail(email), hash)
}

func (r *UserRepo) setPassword(ctx context.Context, where string, key any, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE "+where, hash, key)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user.  Exercises, workouts and feedback go with it
// through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Stats counts the user's workouts and active exercises.
func (r *UserRepo) Stats(ctx context.Context, id uint64) (model.UserStats, error) {
	var s model.UserStats
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM workouts WHERE user_id = ?", id).Scan(&s.Workouts); err != nil {
		return s, fmt.Errorf("count workouts: %w", err)
	}
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM exercises WHERE user_id = ? AND status = ?", id, model.ExerciseActive).Scan(&s.Exercises); err != nil {
		return s, fmt.Errorf("count exercises: %w", err)
	}
	return s, nil
}
