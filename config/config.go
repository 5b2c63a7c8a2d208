package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"menu-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret signs and verifies tokens. Populated by Load.
var JWTSecret []byte

// Log is the process-wide logger. Replaced in main; the nop default
// keeps packages safe to use from tests.
var Log = zap.NewNop()

type Config struct {
	DatabaseURL     string
	JWTSecret       string
	AllowedOrigin   string
	Env             string
	Port            string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

func (c *Config) IsRelease() bool {
	return c.Env == "release" || c.Env == "production"
}

// Load reads configuration from the environment (a .env file is honored
// when present). Every required key must be set or the process refuses
// to start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		Env:             os.Getenv("APP_ENV"),
		Port:            getEnv("PORT", "8080"),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}

	var missing []string
	for _, req := range []struct{ key, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"JWT_SECRET", cfg.JWTSecret},
		{"ALLOWED_ORIGIN", cfg.AllowedOrigin},
		{"APP_ENV", cfg.Env},
	} {
		if strings.TrimSpace(req.val) == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	JWTSecret = []byte(cfg.JWTSecret)
	return cfg, nil
}

// InitDB opens the database and migrates the schema.
func InitDB(cfg *Config) error {
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.MenuItem{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	DB = db
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
