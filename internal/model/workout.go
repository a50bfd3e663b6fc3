package model

import "time"

// DefaultRestSeconds is used when an entry does not specify a rest time.
const DefaultRestSeconds = 60

// Workout is a dated training session owned by one user (`workouts` table).
// Date is a calendar day formatted YYYY-MM-DD; StartTime and EndTime are
// free-form clock strings as entered by the user.
type Workout struct {
	ID        uint64    `json:"id"`         // workouts.id
	OwnerID   uint64    `json:"user_id"`    // workouts.user_id
	Name      string    `json:"name"`       // workouts.name
	Date      string    `json:"date"`       // workouts.date
	Notes     string    `json:"notes"`      // workouts.notes
	StartTime string    `json:"start_time"` // workouts.start_time
	EndTime   string    `json:"end_time"`   // workouts.end_time
	CreatedAt time.Time `json:"created_at"` // workouts.created_at
}

// WorkoutExercise is one exercise performed within a workout
// (`workout_exercises` table).  Entries are only ever replaced wholesale
// together with their workout.  ExerciseID is nil when the referenced
// exercise was removed together with its owner's account.
type WorkoutExercise struct {
	ID           uint64  `json:"id"`            // workout_exercises.id
	WorkoutID    uint64  `json:"workout_id"`    // workout_exercises.workout_id
	ExerciseID   *uint64 `json:"exercise_id"`   // workout_exercises.exercise_id
	ExerciseName *string `json:"name"`          // exercises.name
	Sets         int     `json:"sets"`          // workout_exercises.sets
	Reps         int     `json:"reps"`          // workout_exercises.reps
	Weight       float64 `json:"weight"`        // workout_exercises.weight
	RestTime     int     `json:"rest_time"`     // workout_exercises.rest_time (seconds)
	Notes        string  `json:"notes"`         // workout_exercises.notes
}

// WorkoutDetail is a workout with its entries.
type WorkoutDetail struct {
	Workout   Workout           `json:"workout"`
	Exercises []WorkoutExercise `json:"exercises"`
}
