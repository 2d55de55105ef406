package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	SkipAuth        bool
	Environment     string
	UpstreamURL     string        // Base URL of the reporting API
	UpstreamTimeout time.Duration // Per-request timeout for the reporting API
	DefaultTimeZone string        // Used when a token carries no time zone
	ViewIdleTTL     time.Duration // Mounted views untouched this long are evicted
	SweepSchedule   string        // Cron schedule for the idle-view sweep
	AllowOrigins    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		SkipAuth:        getEnv("SKIP_AUTH", "false") == "true",
		Environment:     getEnv("ENVIRONMENT", "development"),
		UpstreamURL:     getEnv("UPSTREAM_URL", "http://localhost:8000/api"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		DefaultTimeZone: getEnv("DEFAULT_TIME_ZONE", "UTC"),
		ViewIdleTTL:     getDuration("VIEW_IDLE_TTL", 30*time.Minute),
		SweepSchedule:   getEnv("SWEEP_SCHEDULE", "@every 1m"),
		AllowOrigins:    getEnv("ALLOW_ORIGINS", "http://localhost:3000, http://localhost:3001"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, value, fallback)
		return fallback
	}
	return d
}
