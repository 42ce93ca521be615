package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `server:
  port: "9090"
quiz:
  catalogs: [harbour, varberg]
  feedback_delay: 2s
  session_timeout: 45m
redis:
  addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Bind != "0.0.0.0" {
		t.Fatalf("unexpected server section %+v", cfg.Server)
	}
	if ids := cfg.CatalogIDs(); len(ids) != 2 || ids[0] != "varberg" || ids[1] != "harbour" {
		t.Fatalf("unexpected catalog ids %v", ids)
	}
	if d := TTLDuration(cfg.Quiz.FeedbackDelay, time.Second); d != 2*time.Second {
		t.Fatalf("expected 2s, got %s", d)
	}
	if d := TTLDuration(cfg.Quiz.SessionTimeout, time.Minute); d != 45*time.Minute {
		t.Fatalf("expected 45m session timeout, got %s", d)
	}
}

func TestLoadWithoutPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Default != "varberg" || cfg.Server.Port != "8080" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %s", d)
	}
	if d := TTLDuration("soon", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback on garbage, got %s", d)
	}
}
