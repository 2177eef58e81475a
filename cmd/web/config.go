package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type Config struct {
	Port            string
	DietAPIURL      string
	DietAPITimeout  time.Duration
	JWTSecret       string
	Redis           cache.Config
	RedisEnabled    bool
	RateLimit       int
	RateLimitWindow time.Duration
	CookieSecure    bool
	DefaultTimeZone string
	ChartWidth      int
	ChartHeight     int
}

// loadConfig reads the environment, after merging any .env file in the working
// directory. Variables already set win over the file.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DietAPIURL:      strings.TrimRight(getEnv("DIET_API_URL", "http://localhost:8000"), "/"),
		JWTSecret:       os.Getenv("JWT_SECRET_KEY"),
		DefaultTimeZone: getEnv("DEFAULT_TIME_ZONE", "UTC"),
		Redis: cache.Config{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.DietAPITimeout, err = durationEnv("DIET_API_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RedisEnabled, err = boolEnv("REDIS_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = intEnv("RATE_LIMIT", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.ChartWidth, err = intEnv("CHART_WIDTH", 800); err != nil {
		return Config{}, err
	}
	if cfg.ChartHeight, err = intEnv("CHART_HEIGHT", 400); err != nil {
		return Config{}, err
	}

	if _, err := domain.LoadLocation(cfg.DefaultTimeZone); err != nil {
		return Config{}, fmt.Errorf("config: DEFAULT_TIME_ZONE: %w", err)
	}
	if cfg.DietAPITimeout <= 0 {
		return Config{}, fmt.Errorf("config: DIET_API_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: %s must be a boolean, got %q", key, raw)
	}
	return v, nil
}

// durationEnv accepts Go durations ("90s") or a bare number of seconds.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration, got %q", key, raw)
	}
	return d, nil
}
