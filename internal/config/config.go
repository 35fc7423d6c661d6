package config

import (
	"os"
	"strconv"

	"civicconnect/internal/database"

	"github.com/joho/godotenv"
)

// Config holds the civicconnect (HTTP portal) settings.
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  database.Config
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Session struct {
		Secret string
		MaxAge int // seconds
	}
	Uploads struct {
		Dir      string
		MaxBytes int64
	}
	Log struct {
		Level  string
		Format string
	}
	Gov struct {
		Seed     bool
		Name     string
		Email    string
		Password string
	}
}

func Load() *Config {
	// Optional .env for local dev; real env always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, civicconnect
	// falls back to in-memory stores so the portal still comes up.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "civic_connect")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Session.Secret = getEnv("SESSION_SECRET", "civic-connect-dev-secret")
	cfg.Session.MaxAge = parseInt(getEnv("SESSION_MAX_AGE", "86400"), 86400)

	cfg.Uploads.Dir = getEnv("UPLOAD_DIR", "uploads")
	cfg.Uploads.MaxBytes = int64(parseInt(getEnv("MAX_UPLOAD_MB", "50"), 50)) << 20

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Gov.Seed = getEnv("SEED_GOV_ACCOUNT", "true") == "true"
	cfg.Gov.Name = getEnv("GOV_NAME", "Government Desk")
	cfg.Gov.Email = getEnv("GOV_EMAIL", "gov@civicconnect.local")
	cfg.Gov.Password = getEnv("GOV_PASSWORD", "ChangeMe123!")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
