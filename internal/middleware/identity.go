package middleware

// identity.go holds the context keys RequireSession fills in and the
// accessors handlers and other middleware use to read them back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/session"
)

const (
	ctxSessionUser  = "session_user"
	ctxSessionToken = "session_token"
)

// CurrentUser returns the profile attached by RequireSession.
func CurrentUser(c echo.Context) (session.Profile, bool) {
	p, ok := c.Get(ctxSessionUser).(session.Profile)
	return p, ok
}

// SessionToken returns the token of the current request's session.
func SessionToken(c echo.Context) string {
	s, _ := c.Get(ctxSessionToken).(string)
	return s
}

// userKey identifies the caller for rate limiting; "anon" before login.
func userKey(c echo.Context) string {
	if p, ok := CurrentUser(c); ok {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "anon"
}
