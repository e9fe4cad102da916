package config

import (
	"os"
	"strconv"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port      int
	DBDSN     string
	JWTSecret string
	Seed      bool
}

// Load reads the configuration from environment variables, falling back
// to development defaults where a value is optional.
func Load() Config {
	port := 8082
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	seed := false
	if v := os.Getenv("SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			seed = b
		}
	}

	return Config{
		Port:      port,
		DBDSN:     os.Getenv("DB_DSN"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Seed:      seed,
	}
}
