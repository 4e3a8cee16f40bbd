package config

import (
	"os"
	"time"
)

// Config is read from the environment; main loads .env first.
type Config struct {
	Addr          string        // listen address
	DatabaseURL   string        // optional Postgres word corpus
	StaticDir     string        // optional frontend bundle to serve
	SweepInterval time.Duration // cadence of the inactive-room sweep
}

func FromEnv() Config {
	cfg := Config{
		Addr:          ":3001",
		SweepInterval: time.Hour,
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.StaticDir = os.Getenv("STATIC_DIR")
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}
	return cfg
}
