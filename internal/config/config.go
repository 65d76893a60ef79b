package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Validate when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("required environment variable GEMINI_API_KEY is not set")

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey    string
	GeminiModel     string
	GeminiMultiTurn bool

	// Rate limiting
	RateLimitPerMin int
	RedisURL        string

	// Frontend
	FrontendURL string
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool

	// Observability
	MetricsEnabled bool
	LogLevel       string
	LogFormat      string
}

const DefaultGeminiModel = "gemini-flash-latest"

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),
		GeminiMultiTurn: getEnvAsBoolOrDefault("GEMINI_MULTI_TURN", false),
		RateLimitPerMin: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		RedisURL:        getEnvOrDefault("REDIS_URL", ""),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "*"),
		TrustProxy:      getEnvAsBoolOrDefault("TRUST_PROXY", false),
		MetricsEnabled:  getEnvAsBoolOrDefault("METRICS_ENABLED", true),
		LogLevel:        strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
	}

	return cfg
}

// Validate reports configuration the server cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
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
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
