// Package config loads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	ServerAddr      string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration
	// RateLimitRPS of zero disables request throttling.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the environment, after loading a .env file when one is present
// in the working directory. Variables already set are not overridden.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", ""),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
		RateLimitRPS:    getFloatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getIntEnv("RATE_LIMIT_BURST", 10),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "local"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
