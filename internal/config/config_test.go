package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "API_KEY", "BASE_URL", "DATA_DIR", "STORE_URL",
		"STORE_API_KEY", "STORE_TIMEOUT", "MIN_QUERY_LENGTH", "CORS_ORIGINS", "STATS_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
	if cfg.BaseURL != "http://localhost:8090" {
		t.Errorf("expected default base url, got %q", cfg.BaseURL)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("expected ./data, got %q", cfg.DataDir)
	}
	if cfg.MinQueryLength != 3 {
		t.Errorf("expected min query length 3, got %d", cfg.MinQueryLength)
	}
	if cfg.StoreTimeout != 30*time.Second {
		t.Errorf("expected 30s store timeout, got %v", cfg.StoreTimeout)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected 1h stats window, got %v", cfg.StatsWindow)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected [*], got %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BASE_URL", "https://iiif.example.org/")
	t.Setenv("MIN_QUERY_LENGTH", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("STATS_WINDOW", "-5m")
	t.Setenv("STORE_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.BaseURL != "https://iiif.example.org" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.MinQueryLength != 2 {
		t.Errorf("expected 2, got %d", cfg.MinQueryLength)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "https://a.example|https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected negative window reset to 1h, got %v", cfg.StatsWindow)
	}
	if cfg.StoreTimeout != 30*time.Second {
		t.Errorf("expected invalid timeout to fall back, got %v", cfg.StoreTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{BaseURL: "http://localhost:8090", MinQueryLength: 3}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"min length zero", func(c *Config) { c.MinQueryLength = 0 }, "MIN_QUERY_LENGTH"},
		{"store url without key", func(c *Config) { c.StoreURL = "http://store" }, "STORE_API_KEY"},
		{"store url with key", func(c *Config) { c.StoreURL = "http://store"; c.StoreAPIKey = "k" }, ""},
		{"relative base url", func(c *Config) { c.BaseURL = "/iiif" }, "BASE_URL"},
		{"garbage base url", func(c *Config) { c.BaseURL = "http://[::1" }, "BASE_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
