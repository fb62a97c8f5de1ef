package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all environment variables for the catalog-import-service.
type Config struct {
	Port            string // Service port (default: 8086)
	Env             string // "production" or "development"
	RedisURL        string // Redis connection URL
	BackendURL      string // Base URL of the platform backend REST API
	BackendToken    string // Optional service token forwarded to the backend
	ImportChunkSize int    // Records submitted concurrently per chunk
	StorageDir      string // Directory for async import uploads
}

// LoadConfig loads environment variables into a Config struct and validates
// them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         os.Getenv("PORT"),
		Env:          os.Getenv("APP_ENV"),
		RedisURL:     os.Getenv("REDIS_URL"),
		BackendURL:   os.Getenv("BACKEND_URL"),
		BackendToken: os.Getenv("BACKEND_TOKEN"),
		StorageDir:   os.Getenv("IMPORT_STORAGE_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "8086"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://redis:6379"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./data/imports"
	}

	cfg.ImportChunkSize = 10
	if v := os.Getenv("IMPORT_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid IMPORT_CHUNK_SIZE: %q", v)
		}
		cfg.ImportChunkSize = n
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}

	return cfg, nil
}
