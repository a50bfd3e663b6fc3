// Package passreset tracks pending password reset codes, at most one per
// email address.  Requesting a new code replaces any earlier one.
package passreset

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("no pending reset request")
	ErrMismatch = errors.New("reset code mismatch")
	ErrExpired  = errors.New("reset code expired")
)

// Request is a pending reset for one email.
type Request struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Check validates code against the pending request at instant now.
func (r Request) Check(code string, now time.Time) error {
	if subtle.ConstantTimeCompare([]byte(r.Code), []byte(code)) != 1 {
		return ErrMismatch
	}
	if now.After(r.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// Store persists pending requests keyed by normalized email.
type Store interface {
	Save(ctx context.Context, email string, req Request) error
	Get(ctx context.Context, email string) (Request, error)
	Delete(ctx context.Context, email string) error
}
