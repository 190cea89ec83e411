package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/standings")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != 8000 {
		t.Errorf("APIPort = %d, want 8000", cfg.APIPort)
	}
	if cfg.Environment != "development" || cfg.IsProduction() {
		t.Errorf("environment = %q, want development", cfg.Environment)
	}
	if !cfg.RateLimitEnabled || cfg.RateLimitRequests != 100 {
		t.Errorf("rate limit defaults = %v/%d, want enabled/100", cfg.RateLimitEnabled, cfg.RateLimitRequests)
	}
	if !cfg.CacheEnabled {
		t.Error("cache should default to enabled")
	}
	if cfg.DBPoolMaxLife != 30*time.Minute {
		t.Errorf("DBPoolMaxLife = %v, want 30m", cfg.DBPoolMaxLife)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/standings")
	t.Setenv("API_PORT", "9001")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://league.example.com, https://admin.example.com")
	t.Setenv("CACHE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != 9001 {
		t.Errorf("APIPort = %d, want 9001", cfg.APIPort)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction should be true")
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[1] != "https://admin.example.com" {
		t.Errorf("CORS origins = %v, want two trimmed entries", cfg.CORSAllowOrigins)
	}
	if cfg.CacheEnabled {
		t.Error("CACHE_ENABLED=false should disable the cache")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
