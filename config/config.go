package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Admin authorization modes. The mode decides how admin calls are
// authorized without touching the mutation logic itself.
const (
	AuthModeBearer   = "bearer"    // Authorization: Bearer <token> from the identity store
	AuthModeAdminKey = "admin-key" // X-Admin-Key: <static shared secret>
)

// Config stores the application configuration.
type Config struct {
	APIBaseURL string // base path of the meditation API, e.g. http://127.0.0.1:8000/api/v1

	AdminAuthMode string // AuthModeBearer or AuthModeAdminKey
	AdminKey      string // shared secret, only used in admin-key mode

	// Redis holds the durable client-side state (credential, device id).
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogPath  string

	// PlaybackSpeed scales simulated playback; 1.0 is real time.
	PlaybackSpeed float64
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat gets an environment variable as float64 or returns a default value.
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:8000/api/v1"),

		AdminAuthMode: getEnv("ADMIN_AUTH_MODE", AuthModeBearer),
		AdminKey:      os.Getenv("ADMIN_KEY"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),

		PlaybackSpeed: getEnvFloat("PLAYBACK_SPEED", 1.0),
	}
}
