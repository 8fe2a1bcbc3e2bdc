package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	AdminJWTSecret     string
	CORSAllowedOrigins []string

	// Booking rules
	OpenHour            int
	CloseHour           int
	BreakStartHour      int
	BreakEndHour        int
	BookingWindowDays   int
	AllowStatusOverride bool

	// Rate limiting on appointment creation
	CreateRateLimit  int
	CreateRateWindow time.Duration

	// Assistant (Gemini tool-calling)
	GeminiAPIKey  string
	GeminiModelID string
	APIBaseURL    string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		OpenHour:            getEnvAsInt("BOOKING_OPEN_HOUR", 9),
		CloseHour:           getEnvAsInt("BOOKING_CLOSE_HOUR", 19),
		BreakStartHour:      getEnvAsInt("BOOKING_BREAK_START_HOUR", 0),
		BreakEndHour:        getEnvAsInt("BOOKING_BREAK_END_HOUR", 0),
		BookingWindowDays:   getEnvAsInt("BOOKING_WINDOW_DAYS", 3),
		AllowStatusOverride: getEnvAsBool("ALLOW_STATUS_OVERRIDE", true),

		CreateRateLimit:  getEnvAsInt("CREATE_RATE_LIMIT", 30),
		CreateRateWindow: getEnvAsDuration("CREATE_RATE_WINDOW", time.Minute),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		APIBaseURL:    getEnv("API_BASE_URL", "http://127.0.0.1:8080"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
