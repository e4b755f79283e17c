// Package config loads run configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"session-report-lab/internal/domain"
)

// Config holds the runtime configuration for the report pipeline.
type Config struct {
	// Analysis parameters.
	SamplingPeriodMs int64   `yaml:"sampling_period_ms"`
	Epsilon          float64 `yaml:"epsilon"`

	// Report output directory.
	OutputDir string `yaml:"output_dir"`

	// Database connections. Empty means in-memory mode.
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		SamplingPeriodMs: domain.DefaultSamplingPeriodMs,
		Epsilon:          domain.DefaultPnlEpsilon,
		OutputDir:        "reports",
	}
}

// Load reads a YAML config file from path. Fields absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.SamplingPeriodMs <= 0 {
		return fmt.Errorf("sampling_period_ms must be positive, got %d", c.SamplingPeriodMs)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if (c.PostgresDSN == "") != (c.ClickhouseDSN == "") {
		return fmt.Errorf("postgres_dsn and clickhouse_dsn must be set together")
	}
	return nil
}

// DatabaseMode reports whether the config points at external stores.
func (c *Config) DatabaseMode() bool {
	return c.PostgresDSN != "" && c.ClickhouseDSN != ""
}
