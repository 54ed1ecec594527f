package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort      = "8080"
	defaultJWTTTL    = "24h"
	defaultJWTSecret = "change-me-jwt-secret"
	defaultDSN       = "studiobooking.db"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
}

// Load reads configuration from the environment, merging in a local .env file
// when present. Fails only on values that cannot be parsed; missing values
// fall back to development defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("config: invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	if cfg.AppEnv == "production" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("config: JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
