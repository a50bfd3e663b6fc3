package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/session"
	"github.com/iliyamo/fitness-tracker/internal/utils"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUser returns the session profile attached by RequireSession.
func currentUser(c echo.Context) (session.Profile, bool) {
	return middleware.CurrentUser(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
}

// Row ids are signed 64-bit columns, so anything above MaxInt64 can never
// match a row.
func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 63)
	return id, err == nil && id > 0
}

func validID(id uint64) bool { return id > 0 && id <= math.MaxInt64 }

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	return parseID(c.Param(name))
}

// checkPassword reports why pw cannot be hashed, or "" when it can.
func checkPassword(pw string) string {
	if len(pw) > utils.MaxPasswordBytes {
		return "password must be at most 72 bytes"
	}
	return ""
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// serverError logs err with request context and answers with a generic 500.
func serverError(c echo.Context, log *zap.Logger, msg string, err error) error {
	log.Error(msg,
		zap.Error(err),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
