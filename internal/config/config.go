package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Delivery modes: "direct" rewrites manifests to presigned storage URLs,
// "mediated" rewrites them to gateway-local playlist/segment endpoints.
const (
	ModeDirect   = "direct"
	ModeMediated = "mediated"
)

type Config struct {
	Port string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	KafkaHost string

	JWTSecret string

	SignedURLTTL time.Duration
	APIBaseURL   string
	DeliveryMode string

	RateLimit  int
	RateWindow time.Duration

	LogLevel string
}

// Load reads .env (if present) and assembles the process configuration.
// Credentials and endpoints are loaded once at startup and are not
// reloadable mid-process.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "videos"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisAddr:      os.Getenv("REDIS_HOST"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		KafkaHost:      os.Getenv("KAFKA_HOST"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		SignedURLTTL:   time.Duration(getEnvInt("SIGNED_URL_TTL_SECONDS", 3600)) * time.Second,
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		DeliveryMode:   getEnv("DELIVERY_MODE", ModeDirect),
		RateLimit:      getEnvInt("RATE_LIMIT", 120),
		RateWindow:     time.Duration(getEnvInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return nil, fmt.Errorf("MinIO environment variables are not set")
	}
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN environment variable is not set")
	}
	if cfg.DeliveryMode != ModeDirect && cfg.DeliveryMode != ModeMediated {
		return nil, fmt.Errorf("DELIVERY_MODE must be %q or %q, got %q", ModeDirect, ModeMediated, cfg.DeliveryMode)
	}
	if cfg.DeliveryMode == ModeMediated && cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required in mediated mode")
	}
	if cfg.SignedURLTTL <= 0 {
		return nil, fmt.Errorf("SIGNED_URL_TTL_SECONDS must be positive")
	}

	return cfg, nil
}

// getEnv returns the value of key, or fallback if unset or empty.
func getEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// getEnvInt returns the integer value of key, or fallback if unset, empty,
// or not a valid integer.
func getEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
