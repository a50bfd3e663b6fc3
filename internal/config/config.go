package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only the MySQL connection settings are required,
// and only when DB_DRIVER is "mysql"; everything else has a working default
// so a fresh checkout runs against a SQLite file in the working directory.
type Config struct {
	Env  string // application environment (e.g. "development", "production")
	Port string // HTTP port to listen on

	LogLevel string // overrides the per-env log level when set

	DBDriver string // "sqlite" or "mysql"
	DBPath   string // absolute path of the SQLite file
	DBUser   string // mysql username
	DBPass   string // mysql password (optional)
	DBHost   string // mysql host address
	DBPort   string // mysql port number
	DBName   string // mysql database name

	BcryptCost    int           // bcrypt cost for password hashing
	SessionCookie string        // name of the session cookie
	SessionTTL    time.Duration // cookie max-age and store lifetime
	SessionStore  string        // "memory" or "redis"
	ResetCodeTTL  time.Duration // lifetime of a password reset code

	AMQPURL     string   // broker for activity events; empty disables publishing
	CORSOrigins []string // origins allowed to send credentialed requests

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// Load reads configuration values from environment variables and returns a
// Config.  Relative SQLite paths are resolved against the working directory.
func Load() (Config, error) {
	cfg := Config{
		Env:           envStr("APP_ENV", "development"),
		Port:          envStr("APP_PORT", "3000"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		DBDriver:      strings.ToLower(envStr("DB_DRIVER", "sqlite")),
		DBPath:        envStr("DB_PATH", "database.sqlite"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        envStr("DB_PORT", "3306"),
		DBName:        os.Getenv("DB_NAME"),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		SessionCookie: envStr("SESSION_COOKIE", "session_id"),
		SessionTTL:    envDur("SESSION_TTL", 24*time.Hour),
		SessionStore:  strings.ToLower(envStr("SESSION_STORE", "memory")),
		ResetCodeTTL:  envDur("RESET_CODE_TTL", 15*time.Minute),
		AMQPURL:       amqpURL(),
		CORSOrigins:   splitList(envStr("CORS_ORIGINS", "http://localhost:3000")),
		Redis:         LoadRedisConfig(),
		RateLimit:     LoadRateLimitConfig(),
	}

	switch cfg.DBDriver {
	case "sqlite":
		abs, err := filepath.Abs(cfg.DBPath)
		if err != nil {
			return Config{}, fmt.Errorf("resolve DB_PATH: %w", err)
		}
		cfg.DBPath = abs
	case "mysql":
		for key, v := range map[string]string{"DB_USER": cfg.DBUser, "DB_HOST": cfg.DBHost, "DB_NAME": cfg.DBName} {
			if v == "" {
				return Config{}, fmt.Errorf("missing required env var: %s", key)
			}
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.SessionStore != "memory" && cfg.SessionStore != "redis" {
		return Config{}, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST %d", cfg.BcryptCost)
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production logging.
func (c Config) IsProduction() bool { return c.Env == "production" }

func amqpURL() string {
	if v := os.Getenv("AMQP_URL"); v != "" {
		return v
	}
	return os.Getenv("RABBITMQ_URL")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
