package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Aggregation.Interval.Duration != time.Hour {
		t.Errorf("expected default interval 1h, got %v", cfg.Aggregation.Interval.Duration)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by default")
	}
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	content := `
storage = "memory"
log_level = "debug"

[server]
port = 9090

[aggregation]
enabled = true
interval = "15m"
window = "6h"

[sentiment]
bullish_threshold = 0.2
bearish_threshold = -0.2
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage != "memory" || cfg.LogLevel != "debug" {
		t.Errorf("top-level overrides not applied: %q %q", cfg.Storage, cfg.LogLevel)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Aggregation.Interval.Duration != 15*time.Minute {
		t.Errorf("duration string not decoded: %v", cfg.Aggregation.Interval.Duration)
	}
	if cfg.Aggregation.Window.Duration != 6*time.Hour {
		t.Errorf("window not decoded: %v", cfg.Aggregation.Window.Duration)
	}
	if cfg.Sentiment.BullishThreshold != 0.2 {
		t.Errorf("sentiment override not applied: %v", cfg.Sentiment.BullishThreshold)
	}

	// Untouched sections keep their defaults.
	if cfg.Postgres.PoolMaxConns != 10 {
		t.Errorf("unrelated default lost: %d", cfg.Postgres.PoolMaxConns)
	}
}

func TestLoad_EnvOverridesAll(t *testing.T) {
	t.Setenv("WHALEINTEL_SERVER_PORT", "7070")
	t.Setenv("WHALEINTEL_STORAGE", "memory")
	t.Setenv("WHALEINTEL_AGGREGATION_WINDOW", "12h")
	t.Setenv("WHALEINTEL_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("env port override not applied: %d", cfg.Server.Port)
	}
	if cfg.Storage != "memory" {
		t.Errorf("env storage override not applied: %q", cfg.Storage)
	}
	if cfg.Aggregation.Window.Duration != 12*time.Hour {
		t.Errorf("env duration override not applied: %v", cfg.Aggregation.Window.Duration)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://a.example" {
		t.Errorf("env CORS override not parsed: %v", cfg.Server.CORSOrigins)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Storage = "cassandra"
	cfg.Server.Port = 0
	cfg.Sentiment.BullishThreshold = -0.5 // below bearish

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"unknown storage", "port must be", "bullish_threshold"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q: %s", want, msg)
		}
	}
}

func TestValidate_MemoryStorageSkipsDSNChecks(t *testing.T) {
	cfg := Defaults()
	cfg.Storage = "memory"
	cfg.Postgres.DSN = ""
	cfg.Clickhouse.DSN = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("memory storage must not require DSNs: %v", err)
	}
}
