package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/songdna/songdna/pkg/audio/fingerprint"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Analysis pipeline parameters
	Analysis fingerprint.AnalysisConfig `mapstructure:"analysis"`

	// Similarity scoring
	Similarity SimilarityConfig `mapstructure:"similarity"`

	// Batch scan settings
	Scan ScanConfig `mapstructure:"scan"`
}

// SimilarityConfig contains comparator settings
type SimilarityConfig struct {
	// Weights maps feature names to non-negative weights; empty selects
	// the built-in default table.
	Weights map[string]float64 `mapstructure:"weights"`

	// MatchThreshold is the minimum similarity for a scan hit
	MatchThreshold float64 `mapstructure:"match_threshold"`
}

// ScanConfig contains batch scan settings
type ScanConfig struct {
	MaxConcurrency int      `mapstructure:"max_concurrency"`
	Extensions     []string `mapstructure:"extensions"`
	MaxResults     int      `mapstructure:"max_results"`
	ShowProgress   bool     `mapstructure:"show_progress"`
}

// LoadConfig unmarshals the viper-managed configuration, applying
// defaults for anything the config file and environment leave unset.
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the full configuration for consistency
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "json", "yaml", "table":
	default:
		return fmt.Errorf("unsupported output format %q", c.OutputFormat)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if len(c.Similarity.Weights) > 0 {
		if err := fingerprint.SimilarityWeights(c.Similarity.Weights).Validate(); err != nil {
			return fmt.Errorf("similarity config: %w", err)
		}
	}
	if c.Similarity.MatchThreshold < 0 || c.Similarity.MatchThreshold > 1 {
		return fmt.Errorf("similarity match_threshold must be in [0,1], got %f", c.Similarity.MatchThreshold)
	}

	if c.Scan.MaxConcurrency < 1 {
		return fmt.Errorf("scan max_concurrency must be at least 1, got %d", c.Scan.MaxConcurrency)
	}

	return nil
}

// Weights returns the configured similarity weights, falling back to the
// built-in default table.
func (c *Config) Weights() fingerprint.SimilarityWeights {
	if len(c.Similarity.Weights) == 0 {
		return fingerprint.DefaultWeights()
	}
	return fingerprint.SimilarityWeights(c.Similarity.Weights)
}
