// Package repository holds the SQL for every table.  Handlers never see
// driver errors directly: the sentinel values below let them pick a status
// code, and anything else is treated as an internal failure.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts to modify a resource
// that does not exist or that they do not own.  The two cases are not
// distinguished.  Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrFeedbackNotFound = errors.New("feedback not found")

	// ErrUnknownExercise marks a workout entry that references an exercise
	// the owner cannot see.
	ErrUnknownExercise = errors.New("unknown exercise")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
