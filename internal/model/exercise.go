package model

import "time"

// ExerciseStatus is the lifecycle state of an exercise.  Exercises are never
// removed because workout history references them; deleting one archives it.
type ExerciseStatus string

const (
	ExerciseActive   ExerciseStatus = "active"
	ExerciseArchived ExerciseStatus = "archived"
)

// DefaultMuscleGroup is stored when an exercise is created without a group.
const DefaultMuscleGroup = "Altro"

// Exercise is a named movement stored in the `exercises` table.  An exercise
// is visible to a user when it is active and either public or owned by them.
type Exercise struct {
	ID          uint64         `json:"id"`           // exercises.id
	OwnerID     uint64         `json:"user_id"`      // exercises.user_id
	Name        string         `json:"name"`         // exercises.name
	MuscleGroup string         `json:"muscle_group"` // exercises.muscle_group
	Description string         `json:"description"`  // exercises.description
	ImageURL    string         `json:"image_url"`    // exercises.image_url
	IsPublic    bool           `json:"is_public"`    // exercises.is_public
	Status      ExerciseStatus `json:"status"`       // exercises.status
	CreatedAt   time.Time      `json:"created_at"`   // exercises.created_at
	CreatorName string         `json:"creator_name"` // users.name of the owner
}
