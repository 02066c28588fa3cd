package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Env                string
	HTTPAddr           string
	UpstreamBaseURL    string
	UpstreamTimeout    time.Duration
	JWTSecret          string
	CorsAllowedOrigins []string
	POSPollInterval    time.Duration
	KDSPollInterval    time.Duration
	PublicMenuBaseURL  string
	DefaultPayment     string
}

func Load() Config {
	return Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8086"),
		UpstreamBaseURL:    getEnv("UPSTREAM_BASE_URL", "http://localhost:5000"),
		UpstreamTimeout:    getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		POSPollInterval:    getEnvDuration("POS_POLL_INTERVAL", 30*time.Second),
		KDSPollInterval:    getEnvDuration("KDS_POLL_INTERVAL", 15*time.Second),
		PublicMenuBaseURL:  getEnv("PUBLIC_MENU_BASE_URL", "http://localhost:3000"),
		DefaultPayment:     getEnv("DEFAULT_PAYMENT_METHOD", "Cash"),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
