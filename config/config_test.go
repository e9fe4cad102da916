package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SEED", "")

	cfg := Load()
	require.Equal(t, 8082, cfg.Port)
	require.Empty(t, cfg.DBDSN)
	require.False(t, cfg.Seed)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/chatapp?parseTime=true")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SEED", "true")

	cfg := Load()
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "user:pass@tcp(localhost:3306)/chatapp?parseTime=true", cfg.DBDSN)
	require.Equal(t, "secret", cfg.JWTSecret)
	require.True(t, cfg.Seed)
}

func TestLoadBadPortFallsBack(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")

	cfg := Load()
	require.Equal(t, 8082, cfg.Port)
}
