package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// OpenAI (primary chat provider)
	OpenAIAPIKey string
	OpenAIModel  string

	// Gemini (optional fallback provider)
	GeminiAPIKey string
	GeminiModel  string

	// Redis (optional PubMed response cache)
	RedisURL            string
	PubMedCacheTTLSecs  int
	PubMedRatePerSec    int
	PubMedDefaultLimit  int

	// HTTP
	FrontendURL         string
	ChatRateLimitPerMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		Env:          getEnvOrDefault("ENV", "development"),
		OpenAIAPIKey: mustGetEnv("OPENAI_API_KEY"),
		OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		RedisURL:     getEnvOrDefault("REDIS_URL", ""),
		PubMedCacheTTLSecs: getEnvAsIntOrDefault("PUBMED_CACHE_TTL_SECONDS", 900),
		PubMedRatePerSec:   getEnvAsIntOrDefault("PUBMED_RATE_PER_SEC", 3),
		PubMedDefaultLimit: getEnvAsIntOrDefault("PUBMED_DEFAULT_MAX_RESULTS", 10),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		ChatRateLimitPerMin: getEnvAsIntOrDefault("CHAT_RATE_LIMIT_PER_MIN", 30),
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
	if err != nil {
		return defaultVal
	}
	return n
}
