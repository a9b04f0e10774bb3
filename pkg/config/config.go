// Package config provides FlowScope configuration management.
// Priority: defaults < config file < flags.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// Config holds all FlowScope configuration.
type Config struct {
	Version int `yaml:"version"`

	Mapping   MappingConfig   `yaml:"mapping"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// MappingConfig holds default column names for the three required logical
// fields plus the optional resource column.
type MappingConfig struct {
	Case      string `yaml:"case"`
	Activity  string `yaml:"activity"`
	Timestamp string `yaml:"timestamp"`
	Resource  string `yaml:"resource"`

	// TimestampLayout optionally pins one exact timestamp format.
	TimestampLayout string `yaml:"timestamp_layout"`
}

// AnalysisConfig holds default analysis parameters.
type AnalysisConfig struct {
	// BottleneckPercentile is the emission threshold percentile.
	BottleneckPercentile float64 `yaml:"bottleneck_percentile"`

	// TopVariants caps the variant list.
	TopVariants int `yaml:"top_variants"`
}

// StoreConfig controls the optional DuckDB-backed store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means in-memory
}

// TelemetryConfig for optional OTLP tracing.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Mapping: MappingConfig{
			Case:      "case_id",
			Activity:  "activity",
			Timestamp: "timestamp",
			Resource:  "resource",
		},
		Analysis: AnalysisConfig{
			BottleneckPercentile: 75,
			TopVariants:          5,
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flowscope", "config.yaml")
}

// Load reads configuration from path, merged over defaults. A missing file
// is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fserrors.Wrap(err, fserrors.CodeFilePermission, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to parse config")
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fserrors.Wrap(err, fserrors.CodeFilePermission, "failed to create config dir")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to encode config")
	}
	return os.WriteFile(path, data, 0o644)
}
