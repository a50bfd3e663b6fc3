package model

import "time"

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the server: it is excluded from JSON.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – first name.
//  Surname      – last name.
//  Email        – unique, lower-cased login identifier.
//  PasswordHash – bcrypt hash of the password.
//  Country      – free-text country.
//  ProfileImage – URL or data reference of the avatar.
//  CreatedAt    – registration timestamp.
type User struct {
	ID           uint64    `json:"id"`            // users.id
	Name         string    `json:"name"`          // users.name
	Surname      string    `json:"surname"`       // users.surname
	Email        string    `json:"email"`         // users.email
	PasswordHash string    `json:"-"`             // users.password_hash
	Country      string    `json:"country"`       // users.country
	ProfileImage string    `json:"profile_image"` // users.profile_image
	CreatedAt    time.Time `json:"created_at"`    // users.created_at
}

// UserStats are the counters embedded in the profile response.
type UserStats struct {
	Workouts  int64 `json:"workouts"`
	Exercises int64 `json:"exercises"`
}

// Profile is a user together with their counters.
type Profile struct {
	User
	Stats UserStats `json:"stats"`
}
