// Package config loads server configuration from OPTURA_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // OPTURA_DATABASE_URL (required)
	HTTPAddr    string // OPTURA_HTTP_ADDR (default ":8080")
	NATSURL     string // OPTURA_NATS_URL (optional, empty = no events)
	AuthToken   string // OPTURA_AUTH_TOKEN (optional, empty = auth disabled)

	// Planner settings
	OpenAIAPIKey string // OPTURA_OPENAI_API_KEY (optional, empty = deterministic fallback)
	LLMModel     string // OPTURA_LLM_MODEL (default "gpt-4o-mini")

	// Scheduling
	DefaultEstimateHours float64 // OPTURA_DEFAULT_ESTIMATE_HOURS (default 1.0)

	// Sync settings
	SyncInterval   time.Duration // OPTURA_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // OPTURA_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // OPTURA_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // OPTURA_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // OPTURA_SYNC_S3_KEY (default "optura/backup.jsonl")
	SyncGitRepo    string        // OPTURA_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // OPTURA_SYNC_GIT_FILE (default "optura.jsonl")
	SyncGitBranch  string        // OPTURA_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("OPTURA_DATABASE_URL"),
		HTTPAddr:       envOrDefault("OPTURA_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("OPTURA_NATS_URL"),
		AuthToken:      os.Getenv("OPTURA_AUTH_TOKEN"),
		OpenAIAPIKey:   os.Getenv("OPTURA_OPENAI_API_KEY"),
		LLMModel:       envOrDefault("OPTURA_LLM_MODEL", "gpt-4o-mini"),
		SyncS3Bucket:   os.Getenv("OPTURA_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("OPTURA_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("OPTURA_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("OPTURA_SYNC_S3_KEY", "optura/backup.jsonl"),
		SyncGitRepo:    os.Getenv("OPTURA_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("OPTURA_SYNC_GIT_FILE", "optura.jsonl"),
		SyncGitBranch:  envOrDefault("OPTURA_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("OPTURA_DATABASE_URL is required")
	}

	estimateStr := envOrDefault("OPTURA_DEFAULT_ESTIMATE_HOURS", "1.0")
	estimate, err := strconv.ParseFloat(estimateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("OPTURA_DEFAULT_ESTIMATE_HOURS: %w", err)
	}
	if estimate <= 0 {
		return nil, fmt.Errorf("OPTURA_DEFAULT_ESTIMATE_HOURS must be positive")
	}
	c.DefaultEstimateHours = estimate

	intervalStr := envOrDefault("OPTURA_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("OPTURA_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
