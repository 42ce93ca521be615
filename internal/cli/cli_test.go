package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotspot-quiz-service/internal/config"
)

const harbourYAML = `id: harbour
title: Harbour
image_url: https://example.com/harbour.jpg
items:
  - id: 1
    name: Lighthouse
    question: Where is the lighthouse?
    position: {top: "10%", left: "80%"}
`

func TestEnvironmentOverridesFlags(t *testing.T) {
	t.Setenv("HOTSPOT_QUIZ_PORT", "9191")
	t.Setenv("HOTSPOT_QUIZ_REDIS_ADDR", "cache:6379")

	opts := &options{}
	newRootCmd(opts)
	if opts.port != "9191" || opts.redisAddr != "cache:6379" {
		t.Fatalf("expected env values, got port=%q redis=%q", opts.port, opts.redisAddr)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != "9191" || cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsHalfTLS(t *testing.T) {
	if _, err := loadConfig(&options{tlsCert: "cert.pem"}); err == nil {
		t.Fatalf("expected error when only the certificate is set")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "harbour.yaml")
	bad := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(good, []byte(harbourYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(bad, []byte("id: broken\nitems: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := newRootCmd(&options{})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	cmd.SetArgs([]string{"validate", good})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate good: %v", err)
	}
	if !strings.Contains(out.String(), "harbour (1 items)") {
		t.Fatalf("unexpected output %q", out.String())
	}

	cmd.SetArgs([]string{"validate", good, bad})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected failure for broken catalog")
	}
	if !strings.Contains(errOut.String(), "FAIL "+bad) {
		t.Fatalf("expected failure report, got %q", errOut.String())
	}
}

func TestCatalogLoaderFallsBackToBuiltin(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "harbour.yaml"), []byte(harbourYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := config.Default()
	cfg.Quiz.Dir = dir

	loader, closeLoader, err := newCatalogLoader(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	defer closeLoader()

	for _, id := range []string{"harbour", "varberg"} {
		catalog, err := loader.LoadCatalog(context.Background(), id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if catalog.ID != id {
			t.Fatalf("expected %s, got %s", id, catalog.ID)
		}
	}
}

func TestListCatalogs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "harbour.yaml"), []byte(harbourYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := newRootCmd(&options{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list-catalogs", "--catalog-dir", dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "[harbour]") || !strings.Contains(out.String(), "builtin: [varberg]") {
		t.Fatalf("unexpected listing %q", out.String())
	}
}
