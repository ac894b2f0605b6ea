// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings. Defaults suit local development.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"eventup"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// AMQPURL enables the reservation event publisher when set.
	AMQPURL string `envconfig:"AMQP_URL"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DSN builds a libpq-compatible connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
