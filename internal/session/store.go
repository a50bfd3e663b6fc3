// Package session keeps the server-side half of cookie authentication: an
// opaque random token maps to a snapshot of the logged-in user's profile.
// The Store interface lets a single process keep sessions in memory while
// a multi-instance deployment shares them through redis.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a token is unknown or its session expired.
var ErrNotFound = errors.New("session not found")

// Profile is the denormalized user snapshot held for a session.
type Profile struct {
	UserID       uint64 `json:"id"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Country      string `json:"country"`
	ProfileImage string `json:"profile_image"`
}

// Patch carries the profile fields to overwrite; nil fields are kept.
type Patch struct {
	Name         *string
	Surname      *string
	Country      *string
	ProfileImage *string
}

func (p Patch) apply(prof *Profile) {
	if p.Name != nil {
		prof.Name = *p.Name
	}
	if p.Surname != nil {
		prof.Surname = *p.Surname
	}
	if p.Country != nil {
		prof.Country = *p.Country
	}
	if p.ProfileImage != nil {
		prof.ProfileImage = *p.ProfileImage
	}
}

// Store maps session tokens to profiles.  Create must never hand out a token
// that belongs to another live session.
type Store interface {
	Create(ctx context.Context, p Profile) (string, error)
	Get(ctx context.Context, token string) (Profile, error)
	Update(ctx context.Context, token string, patch Patch) error
	Delete(ctx context.Context, token string) error
}
