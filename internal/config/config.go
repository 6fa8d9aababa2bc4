// Package config centralises all environment configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business logic
// layers receive an already-built Config instance.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple: prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Data stores
	MongoURI string
	DBName   string

	// GitHub
	GitHubToken   string
	GitHubAPIURL  string
	GitHubRPS     float64
	GitHubTimeout time.Duration

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ProjectID and Location enable Vertex AI summaries when both are set.
	ProjectID string
	Location  string

	// Indexing
	IndexMaxFiles    int
	IndexBatchSize   int
	IndexKeepContent bool

	// Caches
	ProfileTTL    time.Duration
	IssueCacheTTL time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// It exits on missing critical variables so misconfigurations fail fast.
func Load() Config {
	// No-op when .env doesn't exist.
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         must("MONGODB_URI"),
		DBName:           getEnv("MONGODB_DB", "contexthub"),
		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:     getEnv("GITHUB_API_URL", "https://api.github.com"),
		GitHubRPS:        getFloat("GITHUB_RPS", 10),
		GitHubTimeout:    getDuration("GITHUB_TIMEOUT_SEC", 10),
		ProjectID:        os.Getenv("GCP_PROJECT_ID"),
		Location:         os.Getenv("GCP_LOCATION"),
		ReadTimeout:      getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:     getDuration("WRITE_TIMEOUT_SEC", 10),
		IndexMaxFiles:    getInt("INDEX_MAX_FILES", 150),
		IndexBatchSize:   getInt("INDEX_BATCH_SIZE", 10),
		IndexKeepContent: getBool("INDEX_KEEP_CONTENT", false),
		ProfileTTL:       time.Duration(getInt("PROFILE_TTL_DAYS", 30)) * 24 * time.Hour,
		IssueCacheTTL:    time.Duration(getInt("ISSUE_CACHE_TTL_MIN", 60)) * time.Minute,
	}
}

// AIEnabled reports whether Vertex AI is configured.
func (c Config) AIEnabled() bool {
	return c.ProjectID != "" && c.Location != ""
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads a positive integer, falling back to defaultVal.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("invalid %s=%q; using default %d", key, v, defaultVal)
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
		log.Printf("invalid %s=%q; using default %g", key, v, defaultVal)
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		log.Printf("invalid %s=%q; using default %t", key, v, defaultVal)
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
