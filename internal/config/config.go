// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Segment duration modes for search results built from an intermediate leg
// of a multi-stop route.
const (
	// SegmentDurationZero reports the leg with the trip's own departure and
	// arrival instants, leaving per-stop times to the stop timetable.
	SegmentDurationZero = "zero"

	// SegmentDurationDerive computes the leg's arrival from the stop
	// timetable's clock times.
	SegmentDurationDerive = "derive"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MigrateOnStart applies pending migrations during server bootstrap when
	// true. Defaults to false; deployments that run cmd/migrate separately
	// leave this off.
	MigrateOnStart bool

	// SearchSegmentDuration selects how offers built from an intermediate
	// route segment report their arrival time. Defaults to SegmentDurationZero.
	SearchSegmentDuration string

	// SearchResultLimit caps the number of offers a single search returns.
	// Defaults to 20.
	SearchResultLimit int
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present; real
// environment variables take precedence over it.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		CORSOrigins:           splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MigrateOnStart:        getEnv("MIGRATE_ON_START", "false") == "true",
		SearchSegmentDuration: getEnv("SEARCH_SEGMENT_DURATION", SegmentDurationZero),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	switch cfg.SearchSegmentDuration {
	case SegmentDurationZero, SegmentDurationDerive:
	default:
		return Config{}, fmt.Errorf("SEARCH_SEGMENT_DURATION must be %q or %q, got %q",
			SegmentDurationZero, SegmentDurationDerive, cfg.SearchSegmentDuration)
	}

	limit, err := strconv.Atoi(getEnv("SEARCH_RESULT_LIMIT", "20"))
	if err != nil || limit < 1 {
		return Config{}, fmt.Errorf("SEARCH_RESULT_LIMIT must be a positive integer")
	}
	cfg.SearchResultLimit = limit

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
