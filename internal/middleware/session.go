package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/session"
)

// RequireSession rejects requests without a live session cookie with 401
// before the handler runs.  On success the profile snapshot and the token
// are stored in the echo context.
func RequireSession(store session.Store, cookieName string, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			prof, err := store.Get(c.Request().Context(), ck.Value)
			if errors.Is(err, session.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			if err != nil {
				log.Error("session lookup failed", zap.Error(err), zap.String("path", c.Path()))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}
			c.Set(ctxSessionUser, prof)
			c.Set(ctxSessionToken, ck.Value)
			return next(c)
		}
	}
}
