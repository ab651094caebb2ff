package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != EnvDevelopment {
		t.Fatalf("expected development, got %q", cfg.Environment)
	}
	if cfg.SubdomainCacheTTL != 300*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.SubdomainCacheTTL)
	}
	if cfg.SessionTTL != 30*24*time.Hour || cfg.SessionRefreshThreshold != 15*24*time.Hour {
		t.Fatalf("unexpected session windows ttl=%s threshold=%s", cfg.SessionTTL, cfg.SessionRefreshThreshold)
	}
	if strings.Join(cfg.ReservedSubdomains, ",") != "www,app,api,admin,status,mail" {
		t.Fatalf("unexpected reserved list %v", cfg.ReservedSubdomains)
	}
	if cfg.IsProduction() {
		t.Fatal("development config must not report production")
	}
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.env")
	content := "APP_ENV=production\nRESERVED_SUBDOMAINS= WWW, docs ,,\nSUBDOMAIN_CACHE_TTL=1m\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SUBDOMAIN_CACHE_TTL", "")
	t.Setenv("RESERVED_SUBDOMAINS", "")
	t.Setenv("APP_ENV", "")
	os.Unsetenv("SUBDOMAIN_CACHE_TTL")
	os.Unsetenv("RESERVED_SUBDOMAINS")
	os.Unsetenv("APP_ENV")

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production, got %q", cfg.Environment)
	}
	if got := strings.Join(cfg.ReservedSubdomains, ","); got != "www,docs" {
		t.Fatalf("unexpected reserved list %q", got)
	}
	if cfg.SubdomainCacheTTL != time.Minute {
		t.Fatalf("unexpected cache ttl %s", cfg.SubdomainCacheTTL)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("SESSION_TTL", "thirty days")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse SESSION_TTL") {
		t.Fatalf("unexpected error %v", err)
	}
	if class, key := classifyConfigLoadError(err); class != "parse" || key != "SESSION_TTL" {
		t.Fatalf("expected parse of SESSION_TTL, got %q %q", class, key)
	}
}

func TestValidateRejectsThresholdAboveTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("SESSION_REFRESH_THRESHOLD", "48h")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if class, key := classifyConfigLoadError(err); class != "ttl" || key != "SESSION_REFRESH_THRESHOLD" {
		t.Fatalf("expected ttl failure on SESSION_REFRESH_THRESHOLD, got %q %q (%v)", class, key, err)
	}
}
