package configs

import (
	"github.com/spf13/viper"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "table")

	// Analysis pipeline defaults
	v.SetDefault("analysis.window_size", 1024)
	v.SetDefault("analysis.hop_size", 512)
	v.SetDefault("analysis.rolloff_threshold", 0.85)
	v.SetDefault("analysis.peak_threshold", 0.5)
	v.SetDefault("analysis.min_chroma_freq", 20.0)
	v.SetDefault("analysis.onset_growth", 1.2)
	v.SetDefault("analysis.default_bpm", 120.0)
	v.SetDefault("analysis.min_bpm", 40.0)
	v.SetDefault("analysis.max_bpm", 240.0)
	v.SetDefault("analysis.hash_points", 32)
	v.SetDefault("analysis.enable_key_detection", true)

	// Similarity defaults: empty weights select the built-in table
	v.SetDefault("similarity.match_threshold", 0.7)

	// Scan defaults
	v.SetDefault("scan.max_concurrency", 4)
	v.SetDefault("scan.extensions", []string{".wav"})
	v.SetDefault("scan.max_results", 20)
	v.SetDefault("scan.show_progress", true)
}
