package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Planner.Scoring.AttractionCap != 20 {
		t.Fatalf("expected default attraction cap 20, got %d", cfg.Planner.Scoring.AttractionCap)
	}
	if cfg.Planner.RateDelay != 300*time.Millisecond {
		t.Fatalf("expected default rate delay, got %s", cfg.Planner.RateDelay)
	}
}

func TestLoadFromYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voyago.yaml")
	body := `
server:
  port: "9090"
planner:
  pool_limit: 12
providers:
  weather:
    base_url: https://weather.example
    timeout: 5s
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Planner.PoolLimit != 12 {
		t.Fatalf("expected pool limit 12, got %d", cfg.Planner.PoolLimit)
	}
	if cfg.Providers.Weather.BaseURL != "https://weather.example" {
		t.Fatalf("weather base url not applied: %s", cfg.Providers.Weather.BaseURL)
	}
	if cfg.Providers.Weather.Timeout != 5*time.Second {
		t.Fatalf("weather timeout not applied: %s", cfg.Providers.Weather.Timeout)
	}
	// Untouched sections keep defaults.
	if cfg.Providers.Route.Timeout != 15*time.Second {
		t.Fatalf("route timeout default lost: %s", cfg.Providers.Route.Timeout)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voyago.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOYAGO_PORT", "7070")
	t.Setenv("VOYAGO_RATE_RPS", "2.5")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("env should win over yaml, got %s", cfg.Server.Port)
	}
	if cfg.Rate.RequestsPerSecond != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.Rate.RequestsPerSecond)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"zero pool limit", func(c *Config) { c.Planner.PoolLimit = 0 }},
		{"negative rate delay", func(c *Config) { c.Planner.RateDelay = -time.Second }},
		{"weights off", func(c *Config) { c.Planner.Scoring.WeightFood = 0.9 }},
		{"zero burst", func(c *Config) { c.Rate.Burst = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			if err := validate(&cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
