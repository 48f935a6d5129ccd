package fingerprint

import "fmt"

// AnalysisConfig holds the tunable parameters of the feature extraction
// pipeline. Zero values are not valid; start from DefaultAnalysisConfig
// and override.
type AnalysisConfig struct {
	// Framed analysis (spectral flux, onset detection)
	WindowSize int `json:"window_size" mapstructure:"window_size"`
	HopSize    int `json:"hop_size" mapstructure:"hop_size"`

	// Feature parameters
	RolloffThreshold float64 `json:"rolloff_threshold" mapstructure:"rolloff_threshold"`
	PeakThreshold    float64 `json:"peak_threshold" mapstructure:"peak_threshold"`
	MinChromaFreq    float64 `json:"min_chroma_freq" mapstructure:"min_chroma_freq"`

	// Rhythm parameters
	OnsetGrowth float64 `json:"onset_growth" mapstructure:"onset_growth"`
	DefaultBPM  float64 `json:"default_bpm" mapstructure:"default_bpm"`
	MinBPM      float64 `json:"min_bpm" mapstructure:"min_bpm"`
	MaxBPM      float64 `json:"max_bpm" mapstructure:"max_bpm"`

	// Fingerprint identity
	HashPoints int `json:"hash_points" mapstructure:"hash_points"`

	// Optional key estimation from chroma
	EnableKeyDetection bool `json:"enable_key_detection" mapstructure:"enable_key_detection"`
}

// DefaultAnalysisConfig returns the standard pipeline parameters
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		WindowSize:         1024,
		HopSize:            512,
		RolloffThreshold:   0.85,
		PeakThreshold:      0.5,
		MinChromaFreq:      20,
		OnsetGrowth:        1.2,
		DefaultBPM:         120,
		MinBPM:             40,
		MaxBPM:             240,
		HashPoints:         32,
		EnableKeyDetection: true,
	}
}

// Validate checks parameter sanity
func (c *AnalysisConfig) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.HopSize <= 0 {
		return fmt.Errorf("hop_size must be positive, got %d", c.HopSize)
	}
	if c.RolloffThreshold <= 0 || c.RolloffThreshold > 1 {
		return fmt.Errorf("rolloff_threshold must be in (0,1], got %f", c.RolloffThreshold)
	}
	if c.OnsetGrowth <= 1 {
		return fmt.Errorf("onset_growth must exceed 1, got %f", c.OnsetGrowth)
	}
	if c.MinBPM <= 0 || c.MaxBPM <= c.MinBPM {
		return fmt.Errorf("invalid tempo range [%f, %f]", c.MinBPM, c.MaxBPM)
	}
	if c.DefaultBPM < c.MinBPM || c.DefaultBPM > c.MaxBPM {
		return fmt.Errorf("default_bpm %f outside tempo range [%f, %f]", c.DefaultBPM, c.MinBPM, c.MaxBPM)
	}
	if c.HashPoints <= 0 {
		return fmt.Errorf("hash_points must be positive, got %d", c.HashPoints)
	}
	return nil
}
