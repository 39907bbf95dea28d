package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port           string
	LogLevel       string
	DataDir        string
	DefaultBackend string
	CloudDBURL     string
	CloudDBToken   string
	EncryptionKey  string
	GoogleClientID string
	GoogleSecret   string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DefaultBackend: getEnv("DB_TYPE", "local"),
		CloudDBURL:     getEnv("CLOUD_DB_URL", ""),
		CloudDBToken:   getEnv("CLOUD_DB_TOKEN", ""),
		EncryptionKey:  getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}
	if cfg.DefaultBackend != "local" && cfg.DefaultBackend != "remote" {
		return nil, fmt.Errorf("DB_TYPE must be local or remote, got %q", cfg.DefaultBackend)
	}
	if cfg.EncryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
