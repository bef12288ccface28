package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	DBDSN              string `env:"DB_DSN"`
	JWTSecret          string `env:"JWT_SECRET"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET"`
	ListenAddr         string `env:"LISTEN_ADDR" envDefault:":8081"`
	AutoMigrate        bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// LoadConfig reads an optional ./.env file and then the environment.
// Variables already set win over .env entries.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate reports missing signing secrets. The process still starts
// without them; login, refresh and the token middleware answer 500
// until both are set.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.RefreshTokenSecret == "" {
		missing = append(missing, "REFRESH_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing " + strings.Join(missing, ", "))
	}
	return nil
}
