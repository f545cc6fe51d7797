package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins string
}

type GeminiConfig struct {
	APIKey  string
	Timeout time.Duration
}

type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	// Backend is "redis" or "memory".
	Backend     string
	MaxRequests int
	Window      time.Duration
}

type UploadConfig struct {
	// MaxFileSize caps the raw PDF upload in bytes.
	MaxFileSize int64
	// MaxResumeChars caps the extracted (or submitted) resume text length.
	MaxResumeChars int
}

type AnalyticsConfig struct {
	UsageLogPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	env := getEnv("ENV", "development")

	corsDefault := ""
	if env == "development" {
		corsDefault = "*"
	}

	return &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "3000"),
			Env:              env,
			CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", corsDefault),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", "60s"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		RateLimit: RateLimitConfig{
			Backend:     getEnv("RATE_LIMIT_BACKEND", "redis"),
			MaxRequests: getEnvAsInt("RATE_LIMIT_MAX", 10),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1h"),
		},
		Upload: UploadConfig{
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxResumeChars: getEnvAsInt("MAX_RESUME_CHARS", 50000),
		},
		Analytics: AnalyticsConfig{
			UsageLogPath: getEnv("USAGE_LOG_PATH", "./logs/usage.log"),
		},
	}
}

// Validate enforces the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Server.CORSAllowOrigins == "" {
		return fmt.Errorf("CORS_ALLOW_ORIGINS is required when ENV is not development")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
