package config

import (
	"os"
	"strconv"
	"strings"
)

// Config centralizes runtime settings for the API.
type Config struct {
	Port   string
	AppEnv string

	AuthToken string

	DatabaseURL string
	DataDir     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiModel      string
	GeminiTimeoutMS  int
	GeminiMaxRetries int

	EnhanceCacheTTLSeconds int
	EnhanceCacheMaxEntries int

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	PollIntervalMS    int
	StrictTransitions bool
	SeedDemoJobs      bool
}

func Load() Config {
	return Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		AuthToken: getEnv("API_AUTH_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DataDir:     getEnv("DATA_DIR", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeoutMS:  getEnvInt("GEMINI_TIMEOUT_MS", 15000),
		GeminiMaxRetries: getEnvInt("GEMINI_MAX_RETRIES", 2),

		EnhanceCacheTTLSeconds: getEnvInt("ENHANCE_CACHE_TTL_SECONDS", 900),
		EnhanceCacheMaxEntries: getEnvInt("ENHANCE_CACHE_MAX_ENTRIES", 2000),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),

		PollIntervalMS:    getEnvInt("POLL_INTERVAL_MS", 5000),
		StrictTransitions: getEnvBool("STRICT_TRANSITIONS", false),
		SeedDemoJobs:      getEnvBool("SEED_DEMO_JOBS", false),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}
