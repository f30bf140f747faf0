package config

import (
	"os"
	"strconv"
)

// Config holds everything the process needs, loaded once in main.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Auth     AuthConfig
	Billing  BillingConfig
	Vapi     VapiConfig
	Frontend struct {
		URL string
	}
	Log struct {
		Level  string
		Format string
	}
}

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// AuthConfig identity-provider settings (Supabase-compatible REST auth).
type AuthConfig struct {
	URL    string
	APIKey string
}

// BillingConfig Autumn metered-billing settings.
type BillingConfig struct {
	SecretKey string
	ProductID string
	FeatureID string
}

// VapiConfig telephony-provider settings.
type VapiConfig struct {
	APIKey      string
	AssistantID string
	ServerURL   string
	BaseURL     string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8000")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "vimpound")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "1"), 1)

	cfg.Auth.URL = getEnv("SUPABASE_URL", "")
	cfg.Auth.APIKey = getEnv("SUPABASE_KEY", "")

	cfg.Billing.SecretKey = getEnv("AUTUMN_SECRET_KEY", "")
	cfg.Billing.ProductID = getEnv("AUTUMN_PRODUCT_ID", "")
	cfg.Billing.FeatureID = getEnv("AUTUMN_FEATURE_ID", "")

	cfg.Vapi.APIKey = getEnv("VAPI_API_KEY", "")
	cfg.Vapi.AssistantID = getEnv("ASSISTANT_ID", "")
	cfg.Vapi.ServerURL = getEnv("SERVER_URL", "")
	cfg.Vapi.BaseURL = getEnv("VAPI_BASE_URL", "https://api.vapi.ai")

	cfg.Frontend.URL = getEnv("FRONTEND_URL", "http://localhost:5173")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
