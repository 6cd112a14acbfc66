package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string

	// Analytics
	StatsLocation     *time.Location
	StatsLookbackDays int
	StatsCacheTTL     time.Duration
	FeedLimit         int
	FeedSessionLimit  int
	FeedJoinLimit     int

	// Workers
	StatsRefreshWorkers int

	// Record store circuit breaker
	BreakerFailureThreshold int
	BreakerOpenTimeout      time.Duration

	// Reminders
	ReminderInterval time.Duration

	// Rate limiting
	RateLimitPerMinute int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                    getEnvOrDefault("PORT", "8080"),
		Env:                     getEnvOrDefault("ENV", "development"),
		DatabaseURL:             mustGetEnv("DATABASE_URL"),
		RedisURL:                mustGetEnv("REDIS_URL"),
		JWTSecret:               mustGetEnv("JWT_SECRET"),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:               getEnvOrDefault("LOG_FORMAT", "json"),
		StatsLocation:           getEnvAsLocationOrDefault("STATS_TIMEZONE", time.UTC),
		StatsLookbackDays:       getEnvAsIntOrDefault("STATS_LOOKBACK_DAYS", 30),
		StatsCacheTTL:           time.Duration(getEnvAsIntOrDefault("STATS_CACHE_TTL_SECONDS", 60)) * time.Second,
		FeedLimit:               getEnvAsIntOrDefault("FEED_LIMIT", 20),
		FeedSessionLimit:        getEnvAsIntOrDefault("FEED_SESSION_LIMIT", 20),
		FeedJoinLimit:           getEnvAsIntOrDefault("FEED_JOIN_LIMIT", 10),
		StatsRefreshWorkers:     getEnvAsIntOrDefault("STATS_REFRESH_WORKERS", 2),
		BreakerFailureThreshold: getEnvAsIntOrDefault("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerOpenTimeout:      time.Duration(getEnvAsIntOrDefault("BREAKER_OPEN_SECONDS", 30)) * time.Second,
		ReminderInterval:        time.Duration(getEnvAsIntOrDefault("REMINDER_INTERVAL_HOURS", 20)) * time.Hour,
		RateLimitPerMinute:      getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 120),
		FrontendURL:             getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

// getEnvAsLocationOrDefault resolves an IANA zone name such as "Europe/Berlin".
// An unknown zone panics: every day boundary depends on it.
func getEnvAsLocationOrDefault(key string, defaultVal *time.Location) *time.Location {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	loc, err := time.LoadLocation(val)
	if err != nil {
		panic(fmt.Sprintf("environment variable %s has unknown time zone %q: %v", key, val, err))
	}
	return loc
}
