package router // package router builds the echo instance and registers the API routes

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/handler"
)

// Handlers groups the per-resource handlers mounted under /api.
type Handlers struct {
	Profile   *handler.ProfileHandler
	Exercises *handler.ExerciseHandler
	Feedback  *handler.FeedbackHandler
	Workouts  *handler.WorkoutHandler
	Stats     *handler.StatsHandler
}

// NewEcho returns an echo instance with the global middleware stack:
// panic recovery, request ids, CORS for the browser client and access logs.
func NewEcho(cfg config.Config, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	}))
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the credential endpoints.  limiter guards the ones
// that accept a password or a reset code.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.POST("/reset-password", a.ResetPassword, limiter)
	// logout works with a stale or missing cookie
	g.POST("/logout", a.Logout)
}

// RegisterAPI registers the session-protected resource endpoints.
func RegisterAPI(e *echo.Echo, h Handlers, requireSession echo.MiddlewareFunc) {
	api := e.Group("/api", requireSession)

	api.GET("/me", h.Profile.Get)
	api.PUT("/me", h.Profile.Update)
	api.DELETE("/me", h.Profile.Delete)

	api.GET("/exercises", h.Exercises.List)
	api.POST("/exercises", h.Exercises.Create)
	api.GET("/exercises/:id", h.Exercises.Get)
	api.PUT("/exercises/:id", h.Exercises.Update)
	api.DELETE("/exercises/:id", h.Exercises.Delete)

	api.GET("/feedback", h.Feedback.List)
	api.POST("/feedback", h.Feedback.Create)
	api.DELETE("/feedback/:id", h.Feedback.Delete)

	api.GET("/workouts", h.Workouts.List)
	api.POST("/workouts", h.Workouts.Create)
	api.GET("/workouts/:id", h.Workouts.Get)
	api.PUT("/workouts/:id", h.Workouts.Update)
	api.DELETE("/workouts/:id", h.Workouts.Delete)

	api.GET("/stats", h.Stats.Get)
}
