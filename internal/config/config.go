// Package config loads proxy daemon configuration from defaults, an
// optional YAML file, and EDBO_* environment variables, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the proxy daemon configuration.
type Config struct {
	// Listen is the address the proxy binds to.
	Listen string `yaml:"listen"`

	// BaseURL is the upstream registry endpoint.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request upstream timeout.
	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL controls how long registry responses are served from cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// RedisAddr selects a Redis cache backend when non-empty.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// RequestsPerMinute is the per-IP rate limit on the proxy surface.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// UpstreamRate caps requests per second towards the registry.
	UpstreamRate  float64 `yaml:"upstream_rate"`
	UpstreamBurst int     `yaml:"upstream_burst"`

	// Telemetry.
	OTELEnabled  bool    `yaml:"otel_enabled"`
	OTELExporter string  `yaml:"otel_exporter"`
	OTELEndpoint string  `yaml:"otel_endpoint"`
	OTELSampling float64 `yaml:"otel_sampling"`
	Environment  string  `yaml:"environment"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:            ":8080",
		BaseURL:           "https://registry.edbo.gov.ua",
		Timeout:           15 * time.Second,
		CacheTTL:          time.Hour,
		RequestsPerMinute: 120,
		UpstreamRate:      5,
		UpstreamBurst:     10,
		OTELExporter:      "grpc",
		OTELEndpoint:      "localhost:4317",
		OTELSampling:      1.0,
		Environment:       "development",
		LogLevel:          "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg = fromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromEnv(cfg Config) Config {
	cfg.Listen = ParseString("EDBO_LISTEN", cfg.Listen)
	cfg.BaseURL = ParseString("EDBO_BASE_URL", cfg.BaseURL)
	cfg.Timeout = ParseDuration("EDBO_TIMEOUT", cfg.Timeout)
	cfg.CacheTTL = ParseDuration("EDBO_CACHE_TTL", cfg.CacheTTL)
	cfg.RedisAddr = ParseString("EDBO_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = ParseString("EDBO_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = ParseInt("EDBO_REDIS_DB", cfg.RedisDB)
	cfg.RequestsPerMinute = ParseInt("EDBO_REQUESTS_PER_MINUTE", cfg.RequestsPerMinute)
	cfg.UpstreamRate = ParseFloat("EDBO_UPSTREAM_RATE", cfg.UpstreamRate)
	cfg.UpstreamBurst = ParseInt("EDBO_UPSTREAM_BURST", cfg.UpstreamBurst)
	cfg.OTELEnabled = ParseBool("EDBO_OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELExporter = ParseString("EDBO_OTEL_EXPORTER", cfg.OTELExporter)
	cfg.OTELEndpoint = ParseString("EDBO_OTEL_ENDPOINT", cfg.OTELEndpoint)
	cfg.OTELSampling = ParseFloat("EDBO_OTEL_SAMPLING", cfg.OTELSampling)
	cfg.Environment = ParseString("EDBO_ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = ParseString("EDBO_LOG_LEVEL", cfg.LogLevel)
	return cfg
}

// Validate rejects configurations the daemon cannot run with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("config: base URL is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive")
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("config: requests_per_minute must be positive")
	}
	if c.UpstreamRate <= 0 {
		return fmt.Errorf("config: upstream_rate must be positive")
	}
	if c.OTELSampling < 0 || c.OTELSampling > 1 {
		return fmt.Errorf("config: otel_sampling must be within [0,1]")
	}
	return nil
}
