package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the runtime settings read from the environment. Database
// connection settings are read directly by the database package.
type Config struct {
	Port string

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	LeaderboardTTL time.Duration
	TokenSweep     time.Duration
}

func Load() *Config {
	return &Config{
		Port:           Getenv("PORT", "8080"),
		AccessSecret:   []byte(Getenv("JWT_SECRET", "dev-access-secret")),
		RefreshSecret:  []byte(Getenv("REFRESH_SECRET", "dev-refresh-secret")),
		AccessTTL:      time.Duration(GetenvInt("ACCESS_TOKEN_EXPIRES_IN_MINUTES", 15)) * time.Minute,
		RefreshTTL:     time.Duration(GetenvInt("REFRESH_TOKEN_EXPIRES_IN_DAYS", 7)) * 24 * time.Hour,
		LeaderboardTTL: time.Duration(GetenvInt("LEADERBOARD_CACHE_SECONDS", 60)) * time.Second,
		TokenSweep:     time.Duration(GetenvInt("TOKEN_SWEEP_MINUTES", 60)) * time.Minute,
	}
}

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
