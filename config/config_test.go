package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:4200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Empty(t, cfg.PostgresURL)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.AllowedOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenMaxAge)
	assert.Equal(t, 10*time.Minute, cfg.RoomTTL)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5.0, cfg.MoveRatePerSec)
	assert.Equal(t, 10, cfg.MoveRateBurst)
	assert.False(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PORT", "8080")
	t.Setenv("ROOM_TTL", "1h")
	t.Setenv("SWEEP_INTERVAL", "5s")
	t.Setenv("MOVE_RATE_PER_SEC", "2.5")
	t.Setenv("MOVE_RATE_BURST", "3")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.RoomTTL)
	assert.Equal(t, 5*time.Second, cfg.SweepInterval)
	assert.Equal(t, 2.5, cfg.MoveRatePerSec)
	assert.Equal(t, 3, cfg.MoveRateBurst)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Run("jwt key", func(t *testing.T) {
		t.Setenv("JWT_KEY", "")
		t.Setenv("ALLOWED_ORIGINS", "http://localhost:4200")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_KEY")
	})

	t.Run("allowed origins", func(t *testing.T) {
		t.Setenv("JWT_KEY", "secret")
		t.Setenv("ALLOWED_ORIGINS", "")

		_, err := Load()
		assert.ErrorContains(t, err, "ALLOWED_ORIGINS")
	})
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:4200")
	t.Setenv("ROOM_TTL", "not-a-duration")
	t.Setenv("MOVE_RATE_BURST", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.RoomTTL)
	assert.Equal(t, 10, cfg.MoveRateBurst)
}
