package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/database"
	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/logger"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/passreset"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/router"
	"github.com/iliyamo/fitness-tracker/internal/service"
	"github.com/iliyamo/fitness-tracker/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.DBDriver, zl); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.SessionStore == "redis" || cfg.RateLimit.Enabled {
		rdb = config.NewRedisClient(cfg.Redis)
		if rdb != nil {
			defer rdb.Close()
		}
	}

	var (
		sessions session.Store
		resets   passreset.Store
	)
	switch {
	case cfg.SessionStore == "redis" && rdb == nil:
		zl.Fatal("SESSION_STORE=redis but redis is unreachable", zap.String("addr", cfg.Redis.Addr))
	case cfg.SessionStore == "redis":
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		resets = passreset.NewRedisStore(rdb)
	default:
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		resets = passreset.NewMemoryStore()
	}
	if rdb == nil && cfg.RateLimit.Enabled {
		zl.Warn("redis unavailable, credential rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	exercises := repository.NewExerciseRepo(db)
	workouts := repository.NewWorkoutRepo(db)
	feedback := repository.NewFeedbackRepo(db)
	stats := repository.NewStatsRepo(db)
	publisher := service.NewPublisher(cfg.AMQPURL, zl)

	e := router.NewEcho(cfg, zl)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, users, sessions, resets, zl),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, zl))
	router.RegisterAPI(e, router.Handlers{
		Profile:   handler.NewProfileHandler(cfg, users, sessions, zl),
		Exercises: handler.NewExerciseHandler(exercises, zl),
		Feedback:  handler.NewFeedbackHandler(feedback, exercises, zl),
		Workouts:  handler.NewWorkoutHandler(workouts, publisher, zl),
		Stats:     handler.NewStatsHandler(stats, zl),
	}, middleware.RequireSession(sessions, cfg.SessionCookie, zl))

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.String("db", cfg.DBDriver), zap.String("sessions", cfg.SessionStore))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
