package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/db"
)

type Config struct {
	HTTPPort       string
	RequestTimeout time.Duration
	HandlerTimeout time.Duration

	DB db.Credentials

	RedisAddr      string
	RedisPassword  string
	IdempotencyTTL time.Duration

	// AuthProvider selects "remote" (hosted auth service) or "dev"
	// (local bcrypt-backed provider for development and tests).
	AuthProvider string
	AuthBaseURL  string
	AuthAPIKey   string

	StateDir string
	LogLevel string
}

// Load reads configuration from the environment, with a .env file as an
// optional local override source. Every value has a development default.
func Load(log *logrus.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		RequestTimeout: getDuration(log, "REQUEST_TIMEOUT", 30*time.Second),
		HandlerTimeout: getDuration(log, "HANDLER_TIMEOUT", 5*time.Second),

		DB: db.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getInt(log, "DB_PORT", 5432),
			User:              getEnv("DB_USER", "shophub"),
			Password:          getEnv("DB_PASSWORD", "shophub"),
			DBName:            getEnv("DB_NAME", "shophub"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		IdempotencyTTL: getDuration(log, "IDEMPOTENCY_TTL", 24*time.Hour),

		AuthProvider: getEnv("AUTH_PROVIDER", "dev"),
		AuthBaseURL:  getEnv("AUTH_BASE_URL", ""),
		AuthAPIKey:   getEnv("AUTH_API_KEY", ""),

		StateDir: getEnv("STATE_DIR", "data"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(log *logrus.Logger, key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("invalid integer for %s: %q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getDuration(log *logrus.Logger, key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warnf("invalid duration for %s: %q, using %s", key, raw, fallback)
	return fallback
}
