package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("GENERATOR_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: "localhost:6379"
  ttl: 1h
catalog:
  ttl: 2m
storage:
  s3:
    bucket: stickers
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Admin.Emails) != 1 || cfg.Admin.Emails[0] != DefaultAdminEmail {
		t.Fatalf("expected default admin, got %v", cfg.Admin.Emails)
	}
	if cfg.Generator.APIKey != "from-env" {
		t.Fatalf("expected env api key, got %q", cfg.Generator.APIKey)
	}
	if cfg.Storage.S3.Bucket != "stickers" {
		t.Fatalf("expected bucket, got %q", cfg.Storage.S3.Bucket)
	}
	if got := TTLDuration(cfg.Catalog.TTL, time.Minute); got != 2*time.Minute {
		t.Fatalf("expected 2m, got %v", got)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Second); got != time.Second {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
