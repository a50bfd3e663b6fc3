// Package queue defines the activity events exchanged over the message
// broker and the consumer that records them.
package queue

// WorkoutLoggedQueue is the durable queue workout events are routed to.
const WorkoutLoggedQueue = "workout.logged"

// WorkoutLoggedEvent is published after a workout is created.  It carries
// enough for the activity log without querying the database.
type WorkoutLoggedEvent struct {
	WorkoutID uint64 `json:"workout_id"`
	UserID    uint64 `json:"user_id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Entries   int    `json:"entries"`
	TotalSets int    `json:"total_sets"`
	LoggedAt  string `json:"logged_at"`
}
