package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "voyago.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "VOYAGO_PORT")
	setString(&cfg.Server.CORSOrigin, "VOYAGO_CORS_ORIGIN")
	setString(&cfg.Logging.Level, "VOYAGO_LOG_LEVEL")
	setString(&cfg.Logging.Service, "VOYAGO_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "VOYAGO_LOG_ASYNC")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "VOYAGO_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "VOYAGO_PG_MIN_CONNS")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.CacheBucket, "VOYAGO_NATS_CACHE_BUCKET")
	setDuration(&cfg.Cache.PoolTTL, "VOYAGO_CACHE_POOL_TTL")
	setString(&cfg.Providers.Weather.BaseURL, "VOYAGO_WEATHER_URL")
	setString(&cfg.Providers.Weather.APIKey, "VOYAGO_WEATHER_API_KEY")
	setDuration(&cfg.Providers.Weather.Timeout, "VOYAGO_WEATHER_TIMEOUT")
	setString(&cfg.Providers.Route.BaseURL, "VOYAGO_ROUTE_URL")
	setDuration(&cfg.Providers.Route.Timeout, "VOYAGO_ROUTE_TIMEOUT")
	setString(&cfg.Providers.Places.BaseURL, "VOYAGO_PLACES_URL")
	setString(&cfg.Providers.Places.APIKey, "VOYAGO_PLACES_API_KEY")
	setDuration(&cfg.Providers.Places.Timeout, "VOYAGO_PLACES_TIMEOUT")
	setString(&cfg.Providers.LLM.BaseURL, "VOYAGO_LLM_URL")
	setString(&cfg.Providers.LLM.APIKey, "VOYAGO_LLM_API_KEY")
	setString(&cfg.Providers.LLM.Model, "VOYAGO_LLM_MODEL")
	setDuration(&cfg.Providers.LLM.Timeout, "VOYAGO_LLM_TIMEOUT")
	setInt(&cfg.Breaker.MaxFailures, "VOYAGO_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "VOYAGO_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "VOYAGO_RATE_RPS")
	setInt(&cfg.Rate.Burst, "VOYAGO_RATE_BURST")
	setInt(&cfg.Planner.PoolLimit, "VOYAGO_POOL_LIMIT")
	setDuration(&cfg.Planner.RateDelay, "VOYAGO_RATE_DELAY")
	setString(&cfg.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Telemetry.Service, "VOYAGO_TELEMETRY_SERVICE")
	setString(&cfg.MCP.Addr, "VOYAGO_MCP_ADDR")
}

// validate rejects configurations that cannot work.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", cfg.Server.Port)
	}
	if cfg.Planner.PoolLimit < 1 {
		return errors.New("planner.pool_limit must be at least 1")
	}
	if cfg.Planner.RateDelay < 0 {
		return errors.New("planner.rate_delay must not be negative")
	}
	w := cfg.Planner.Scoring
	sum := w.WeightFood + w.WeightCulture + w.WeightAdventure + w.WeightNightlife + w.WeightShopping
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("planner.scoring weights must sum to 1.0, got %.3f", sum)
	}
	if cfg.Rate.RequestsPerSecond <= 0 || cfg.Rate.Burst <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(parsed)
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
