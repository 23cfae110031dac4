package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	PostgresURL    string
	JWTKey         string
	AllowedOrigins []string
	Debug          bool

	TokenMaxAge   time.Duration
	RoomTTL       time.Duration
	SweepInterval time.Duration

	MoveRatePerSec float64
	MoveRateBurst  int
}

// Load reads everything from the environment. POSTGRES_URL may be empty, in
// which case the server runs on the in-memory store (single node, dev only).
func Load() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "5000"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		JWTKey:         os.Getenv("JWT_KEY"),
		Debug:          os.Getenv("DEBUG") == "true",
		TokenMaxAge:    durationEnv("TOKEN_MAX_AGE", 7*24*time.Hour),
		RoomTTL:        durationEnv("ROOM_TTL", 10*time.Minute),
		SweepInterval:  durationEnv("SWEEP_INTERVAL", 30*time.Second),
		MoveRatePerSec: floatEnv("MOVE_RATE_PER_SEC", 5),
		MoveRateBurst:  intEnv("MOVE_RATE_BURST", 10),
	}

	if cfg.JWTKey == "" {
		return Config{}, errors.New("missing JWT_KEY")
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		return Config{}, errors.New("missing ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = strings.Split(origins, ",")

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
