package app

import (
	"fmt"

	"github.com/songdna/songdna/configs"
	"github.com/songdna/songdna/internal/scan"
	"github.com/songdna/songdna/pkg/audio/fingerprint"
	"github.com/songdna/songdna/pkg/logging"
)

// Context holds the resolved runtime state shared by CLI commands:
// configuration, logger, and the analysis components built from them.
type Context struct {
	Config *configs.Config
	Logger logging.Logger

	Builder    *fingerprint.Builder
	Comparator *fingerprint.Comparator
}

// NewContext loads configuration, configures logging, and wires the
// analysis engine.
func NewContext() (*Context, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := config.LogLevel
	if config.Verbose {
		level = "debug"
	}
	logging.SetLevel(level)

	logger := logging.WithFields(logging.Fields{
		"component": "app",
	})

	builder := fingerprint.NewBuilder(&config.Analysis, nil)

	comparator, err := fingerprint.NewComparator(config.Weights())
	if err != nil {
		return nil, fmt.Errorf("failed to create comparator: %w", err)
	}

	logger.Debug("Application context initialized", logging.Fields{
		"output_format": config.OutputFormat,
		"window_size":   config.Analysis.WindowSize,
		"hop_size":      config.Analysis.HopSize,
	})

	return &Context{
		Config:     config,
		Logger:     logger,
		Builder:    builder,
		Comparator: comparator,
	}, nil
}

// ScanOptions maps the configured scan settings into scanner options
func (c *Context) ScanOptions() *scan.Options {
	return &scan.Options{
		MaxConcurrency: c.Config.Scan.MaxConcurrency,
		Extensions:     c.Config.Scan.Extensions,
		MaxResults:     c.Config.Scan.MaxResults,
		MatchThreshold: c.Config.Similarity.MatchThreshold,
		ShowProgress:   c.Config.Scan.ShowProgress,
	}
}

// NewScanner builds a library scanner from the context's components
func (c *Context) NewScanner() *scan.Scanner {
	return scan.NewScanner(c.ScanOptions(), c.Builder, c.Comparator)
}
