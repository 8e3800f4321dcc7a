package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment
// variables. Missing required keys fail fast at startup.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisAddr   string

	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderAPIID   string
	ProviderTimeout time.Duration

	StorageBasePath string
	StorageBaseURL  string
	GeoIPDBPath     string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	SubmitBatchSize int
	PollBatchSize   int

	SubmitWorkerMaxCalls int
	PollWorkerMaxCalls   int
	RateLimitWindowSecs  int

	PublicRateLimitPerMin int

	CORSAllowedOrigins []string
	DefaultLocale      string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where a sensible default exists.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", "https://api.videoprovider.example.com"),
		ProviderAPIKey:  os.Getenv("PROVIDER_API_KEY"),
		ProviderAPIID:   os.Getenv("PROVIDER_API_ID"),
		ProviderTimeout: time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 20)),

		StorageBasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		GeoIPDBPath:     os.Getenv("GEOIP_DB_PATH"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),

		SubmitBatchSize: getEnvInt("SUBMIT_BATCH_SIZE", 5),
		PollBatchSize:   getEnvInt("POLL_BATCH_SIZE", 10),

		SubmitWorkerMaxCalls: getEnvInt("SUBMIT_WORKER_MAX_CALLS", 5),
		PollWorkerMaxCalls:   getEnvInt("POLL_WORKER_MAX_CALLS", 10),
		RateLimitWindowSecs:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		PublicRateLimitPerMin: getEnvInt("PUBLIC_RATE_LIMIT_PER_MINUTE", 60),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
	}
	cfg.StorageBaseURL = getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/files", cfg.Port))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ProviderBaseURL == "" {
		return nil, fmt.Errorf("PROVIDER_BASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
