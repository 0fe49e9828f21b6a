package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN            string
	Environment      string
	Port             string
	JWTSecret        string
	JWTTTL           time.Duration
	ResetTokenTTL    time.Duration
	MigrationsDir    string
	UnisenderAPIKey  string
	EmailFromAddress string
	EmailFromName    string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:            os.Getenv("DB_DSN"),
		Environment:      os.Getenv("ENV"),
		Port:             os.Getenv("APP_PORT"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           durationEnv("JWT_TTL_MINUTES", 12*time.Hour),
		ResetTokenTTL:    durationEnv("RESET_TOKEN_TTL_MINUTES", 20*time.Minute),
		MigrationsDir:    os.Getenv("MIGRATIONS_DIR"),
		UnisenderAPIKey:  os.Getenv("UNISENDER_API_KEY"),
		EmailFromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:    os.Getenv("EMAIL_FROM_NAME"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

// IsDev reports whether the dev-only surface (seed endpoint, log email
// sender fallback) is enabled.
func (c *Config) IsDev() bool {
	return c.Environment != "production"
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		log.Printf("invalid %s=%q, using default", key, raw)
		return fallback
	}
	return time.Duration(minutes) * time.Minute
}
