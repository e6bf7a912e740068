package config

import (
	"testing"
	"time"
)

// allEnvVars lists every env var Load reads, cleared between tests.
var allEnvVars = []string{
	"OPTURA_DATABASE_URL", "OPTURA_HTTP_ADDR", "OPTURA_NATS_URL", "OPTURA_AUTH_TOKEN",
	"OPTURA_OPENAI_API_KEY", "OPTURA_LLM_MODEL", "OPTURA_DEFAULT_ESTIMATE_HOURS",
	"OPTURA_SYNC_INTERVAL", "OPTURA_SYNC_S3_BUCKET", "OPTURA_SYNC_S3_ENDPOINT",
	"OPTURA_SYNC_S3_REGION", "OPTURA_SYNC_S3_KEY",
	"OPTURA_SYNC_GIT_REPO", "OPTURA_SYNC_GIT_FILE", "OPTURA_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
		wantModel    string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "Defaults",
			env:          map[string]string{"OPTURA_DATABASE_URL": "postgres://localhost/optura"},
			wantHTTPAddr: ":8080",
			wantModel:    "gpt-4o-mini",
		},
		{
			name: "CustomValues",
			env: map[string]string{
				"OPTURA_DATABASE_URL": "postgres://db:5432/optura",
				"OPTURA_HTTP_ADDR":    ":3000",
				"OPTURA_NATS_URL":     "nats://localhost:4222",
				"OPTURA_LLM_MODEL":    "gpt-4o",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
			wantModel:    "gpt-4o",
		},
		{
			name: "BadEstimate",
			env: map[string]string{
				"OPTURA_DATABASE_URL":           "postgres://localhost/optura",
				"OPTURA_DEFAULT_ESTIMATE_HOURS": "zero",
			},
			wantErr: true,
		},
		{
			name: "NegativeEstimate",
			env: map[string]string{
				"OPTURA_DATABASE_URL":           "postgres://localhost/optura",
				"OPTURA_DEFAULT_ESTIMATE_HOURS": "-2",
			},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
			if cfg.LLMModel != tc.wantModel {
				t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, tc.wantModel)
			}
		})
	}
}

func TestLoad_SyncDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("OPTURA_DATABASE_URL", "postgres://localhost/optura")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncS3Region != "us-east-1" {
		t.Errorf("SyncS3Region = %q, want us-east-1", cfg.SyncS3Region)
	}
	if cfg.SyncS3Key != "optura/backup.jsonl" {
		t.Errorf("SyncS3Key = %q", cfg.SyncS3Key)
	}
	if cfg.SyncGitFile != "optura.jsonl" || cfg.SyncGitBranch != "main" {
		t.Errorf("git sync defaults: file=%q branch=%q", cfg.SyncGitFile, cfg.SyncGitBranch)
	}
	if cfg.DefaultEstimateHours != 1.0 {
		t.Errorf("DefaultEstimateHours = %v, want 1.0", cfg.DefaultEstimateHours)
	}
}

func TestLoad_BadSyncInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("OPTURA_DATABASE_URL", "postgres://localhost/optura")
	t.Setenv("OPTURA_SYNC_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for bad sync interval")
	}
}
