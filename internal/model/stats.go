package model

// MonthCount is the number of workouts logged in one calendar month (YYYY-MM).
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// MuscleCount is the number of workout entries that trained a muscle group.
type MuscleCount struct {
	MuscleGroup string `json:"muscle_group"`
	Count       int64  `json:"count"`
}

// GeneralStats backs the dashboard charts.
type GeneralStats struct {
	WorkoutsByMonth []MonthCount  `json:"workoutsByMonth"`
	MuscleDist      []MuscleCount `json:"muscleDist"`
}

// ProgressionPoint is the heaviest weight lifted for an exercise on one date.
type ProgressionPoint struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"max_weight"`
}
