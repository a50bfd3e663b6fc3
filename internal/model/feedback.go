package model

import "time"

// Feedback is a rating and comment a user leaves on an exercise.
type Feedback struct {
	ID          uint64    `json:"id"`           // feedback.id
	UserID      uint64    `json:"user_id"`      // feedback.user_id
	ExerciseID  uint64    `json:"exercise_id"`  // feedback.exercise_id
	Rating      int       `json:"rating"`       // feedback.rating (1-5)
	Comment     string    `json:"comment"`      // feedback.comment
	CreatedAt   time.Time `json:"created_at"`   // feedback.created_at
	UserName    string    `json:"user_name"`    // users.name of the author
	UserSurname string    `json:"user_surname"` // users.surname of the author
}
