// Package config provides unified configuration loading for phenoscope.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all phenoscope configuration settings.
type Config struct {
	// Render contains defaults for the rendering pipeline.
	Render RenderConfig `json:"render" yaml:"render"`

	// History contains settings for the render history store.
	History HistoryConfig `json:"history" yaml:"history"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// RenderConfig configures pipeline defaults. Command-line flags override
// these per invocation.
type RenderConfig struct {
	// Mode is the composition strategy: "layered", "sequential", or
	// "parallel".
	Mode string `json:"mode" yaml:"mode"`

	// ActiveThreshold drops resolved invocations at or below it.
	ActiveThreshold float64 `json:"active_threshold" yaml:"active_threshold"`

	// GlobalIntensity is the session-wide intensity factor in [0,2].
	GlobalIntensity float64 `json:"global_intensity" yaml:"global_intensity"`

	// Propagate enables interaction-graph propagation when a graph is
	// supplied.
	Propagate bool `json:"propagate" yaml:"propagate"`
}

// HistoryConfig configures the render history event log.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database location. Defaults to
	// .phenoscope/history.db under the working directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or
	// "trace". "debug" enables render tracing to
	// .phenoscope/renders.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Mode:            "layered",
			ActiveThreshold: 0.1,
			GlobalIntensity: 1.0,
			Propagate:       true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".phenoscope/history.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus env overrides.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Render.Mode {
	case "layered", "sequential", "parallel":
	default:
		return fmt.Errorf("invalid render mode %q", c.Render.Mode)
	}
	if c.Render.ActiveThreshold < 0 || c.Render.ActiveThreshold > 1 {
		return fmt.Errorf("active_threshold %v outside [0,1]", c.Render.ActiveThreshold)
	}
	if c.Render.GlobalIntensity < 0 || c.Render.GlobalIntensity > 2 {
		return fmt.Errorf("global_intensity %v outside [0,2]", c.Render.GlobalIntensity)
	}
	return nil
}

// applyEnvOverrides applies PHENOSCOPE_* environment variables on top of
// the loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PHENOSCOPE_RENDER_MODE"); v != "" {
		cfg.Render.Mode = v
	}
	if v := os.Getenv("PHENOSCOPE_ACTIVE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Render.ActiveThreshold = f
		}
	}
	if v := os.Getenv("PHENOSCOPE_GLOBAL_INTENSITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Render.GlobalIntensity = f
		}
	}
	if v := os.Getenv("PHENOSCOPE_PROPAGATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Render.Propagate = b
		}
	}
	if v := os.Getenv("PHENOSCOPE_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("PHENOSCOPE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
