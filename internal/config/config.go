// Package config provides hierarchical configuration loading for voyago.
// Precedence: defaults < YAML file < environment variables.
package config

import (
	"time"

	"github.com/voyago/voyago/internal/domain/compare"
)

// Config holds all runtime configuration for the voyago core service.
type Config struct {
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
	Postgres  Postgres  `yaml:"postgres"`
	NATS      NATS      `yaml:"nats"`
	Cache     Cache     `yaml:"cache"`
	Providers Providers `yaml:"providers"`
	Breaker   Breaker   `yaml:"breaker"`
	Rate      Rate      `yaml:"rate"`
	Planner   Planner   `yaml:"planner"`
	Telemetry Telemetry `yaml:"telemetry"`
	MCP       MCP       `yaml:"mcp"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Postgres holds the optional plan-archive connection configuration.
// An empty DSN disables the archive entirely.
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	HealthCheck     time.Duration `yaml:"health_check"`
}

// NATS holds the optional event bus configuration.
// An empty URL disables event publishing and the L2 cache.
type NATS struct {
	URL         string `yaml:"url"`
	CacheBucket string `yaml:"cache_bucket"`
}

// Cache holds candidate-pool cache configuration.
type Cache struct {
	MaxCostBytes int64         `yaml:"max_cost_bytes"`
	PoolTTL      time.Duration `yaml:"pool_ttl"`
	L1Expire     time.Duration `yaml:"l1_expire"`
}

// Providers configures the upstream data-source clients. Any provider left
// without a base URL (or API key where one is required) is disabled and its
// consumers fall back to neutral defaults.
type Providers struct {
	Weather ProviderHTTP `yaml:"weather"`
	Route   ProviderHTTP `yaml:"route"`
	Places  ProviderHTTP `yaml:"places"`
	LLM     LLM          `yaml:"llm"`
}

// ProviderHTTP is the shared shape for one upstream HTTP provider.
type ProviderHTTP struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLM configures the OpenAI-compatible suggestion generator.
type LLM struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// Breaker holds circuit breaker configuration for provider calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Rate holds per-IP HTTP rate limiting configuration.
type Rate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Planner holds the itinerary and scoring tunables. The scoring values are
// product-tuned placeholders carried from config so they can be adjusted
// without a rebuild.
type Planner struct {
	PoolLimit      int            `yaml:"pool_limit"`       // max places fetched per category
	SuggestionsMax int            `yaml:"suggestions_max"`  // unused-attraction suggestions per day
	EnrichmentMax  int            `yaml:"enrichment_max"`   // generated activities spliced per slot
	RateDelay      time.Duration  `yaml:"rate_delay"`       // fixed pause between per-hotel lookups
	Scoring        compare.Config `yaml:"scoring"`          // destination comparison tunables
	UnitRates      UnitRates      `yaml:"unit_rates"`       // budget heuristic rates
	DefaultRouteKm float64        `yaml:"default_route_km"` // route fallback distance
}

// UnitRates are the budget heuristic rates per tier: cost per route kilometer
// and daily spend per traveler.
type UnitRates struct {
	PerKmLow     float64 `yaml:"per_km_low"`
	PerKmMedium  float64 `yaml:"per_km_medium"`
	PerKmHigh    float64 `yaml:"per_km_high"`
	DailyLow     float64 `yaml:"daily_low"`
	DailyMedium  float64 `yaml:"daily_medium"`
	DailyHigh    float64 `yaml:"daily_high"`
	CurrencyCode string  `yaml:"currency_code"`
}

// MCP holds the Model Context Protocol server configuration.
// An empty addr disables the MCP transport.
type MCP struct {
	Addr string `yaml:"addr"`
}

// Telemetry holds OpenTelemetry export configuration.
// An empty endpoint disables export.
type Telemetry struct {
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "*",
		},
		Logging: Logging{
			Level:   "info",
			Service: "voyago",
		},
		Postgres: Postgres{
			MaxConns:        8,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
			HealthCheck:     time.Minute,
		},
		NATS: NATS{
			CacheBucket: "voyago-pools",
		},
		Cache: Cache{
			MaxCostBytes: 32 << 20, // 32 MB
			PoolTTL:      30 * time.Minute,
			L1Expire:     5 * time.Minute,
		},
		Providers: Providers{
			Weather: ProviderHTTP{Timeout: 10 * time.Second},
			Route:   ProviderHTTP{Timeout: 15 * time.Second},
			Places:  ProviderHTTP{Timeout: 15 * time.Second},
			LLM: LLM{
				Model:     "gpt-4o-mini",
				Timeout:   30 * time.Second,
				MaxTokens: 1024,
			},
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Planner: Planner{
			PoolLimit:      20,
			SuggestionsMax: 4,
			EnrichmentMax:  2,
			RateDelay:      300 * time.Millisecond,
			Scoring:        compare.DefaultConfig(),
			UnitRates: UnitRates{
				PerKmLow:     0.08,
				PerKmMedium:  0.12,
				PerKmHigh:    0.20,
				DailyLow:     60,
				DailyMedium:  140,
				DailyHigh:    320,
				CurrencyCode: "USD",
			},
			DefaultRouteKm: 500,
		},
		Telemetry: Telemetry{
			Service: "voyago",
		},
		MCP: MCP{
			Addr: ":3001",
		},
	}
}
