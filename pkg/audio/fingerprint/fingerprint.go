package fingerprint

import (
	"math"
	"strconv"
	"time"

	"github.com/songdna/songdna/pkg/audio"
	"github.com/songdna/songdna/pkg/audio/fingerprint/analyzers"
	"github.com/songdna/songdna/pkg/logging"
)

// energyFloor keeps the log-RMS energy feature finite for silent buffers
const energyFloor = 1e-10

// FeatureSet is the fixed-shape record of scalar features extracted from
// one SampleBuffer. Every field is a finite, non-NaN real number for every
// input; degenerate buffers produce the documented per-feature fallbacks
// instead of NaN.
type FeatureSet struct {
	RMS               float64 `json:"rms"`
	ZeroCrossingRate  float64 `json:"zero_crossing_rate"`
	SpectralCentroid  float64 `json:"spectral_centroid"`
	SpectralRolloff   float64 `json:"spectral_rolloff"`
	SpectralBandwidth float64 `json:"spectral_bandwidth"`
	SpectralFlux      float64 `json:"spectral_flux"`
	Tempo             float64 `json:"tempo"`
	RhythmStrength    float64 `json:"rhythm_strength"`
	Harmonicity       float64 `json:"harmonicity"`
	Inharmonicity     float64 `json:"inharmonicity"`
	Energy            float64 `json:"energy"`
	DynamicRange      float64 `json:"dynamic_range"`
	AttackTime        float64 `json:"attack_time"`
	DecayTime         float64 `json:"decay_time"`
}

// Value looks a feature up by its canonical name (the JSON tag). The
// second return reports whether the name is a known feature.
func (fs *FeatureSet) Value(name string) (float64, bool) {
	if fs == nil {
		return 0, false
	}

	switch name {
	case "rms":
		return fs.RMS, true
	case "zero_crossing_rate":
		return fs.ZeroCrossingRate, true
	case "spectral_centroid":
		return fs.SpectralCentroid, true
	case "spectral_rolloff":
		return fs.SpectralRolloff, true
	case "spectral_bandwidth":
		return fs.SpectralBandwidth, true
	case "spectral_flux":
		return fs.SpectralFlux, true
	case "tempo":
		return fs.Tempo, true
	case "rhythm_strength":
		return fs.RhythmStrength, true
	case "harmonicity":
		return fs.Harmonicity, true
	case "inharmonicity":
		return fs.Inharmonicity, true
	case "energy":
		return fs.Energy, true
	case "dynamic_range":
		return fs.DynamicRange, true
	case "attack_time":
		return fs.AttackTime, true
	case "decay_time":
		return fs.DecayTime, true
	}

	return 0, false
}

// Fingerprint is the complete, immutable identity record for one audio
// buffer: the feature set plus a content hash and buffer metadata. Safe to
// copy, serialize, and compare freely.
type Fingerprint struct {
	Features   *FeatureSet   `json:"features"`
	Key        string        `json:"key,omitempty"`
	Hash       string        `json:"hash"`
	Duration   time.Duration `json:"duration"`
	SampleRate int           `json:"sample_rate"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Builder runs the full analysis pipeline over a SampleBuffer. A Builder
// is stateless across calls; one instance may serve concurrent Build calls
// from separate goroutines with no coordination.
type Builder struct {
	config    *AnalysisConfig
	transform analyzers.Transform
	logger    logging.Logger
}

// NewBuilder creates a fingerprint builder. A nil config uses defaults; a
// nil transform uses the FFT-backed production transform.
func NewBuilder(config *AnalysisConfig, transform analyzers.Transform) *Builder {
	if config == nil {
		config = DefaultAnalysisConfig()
	}
	if transform == nil {
		transform = analyzers.NewFFTTransform()
	}

	return &Builder{
		config:    config,
		transform: transform,
		logger: logging.WithFields(logging.Fields{
			"component": "fingerprint_builder",
		}),
	}
}

// Build extracts a Fingerprint from the buffer. A nil buffer yields a nil
// fingerprint rather than an error; degenerate (empty, silent) buffers
// yield a fingerprint whose features carry the documented fallbacks.
func (b *Builder) Build(buf *audio.SampleBuffer) *Fingerprint {
	if buf == nil {
		return nil
	}

	start := time.Now()

	spectral := analyzers.NewSpectralAnalyzer(buf.SampleRate, b.config.WindowSize, b.config.HopSize, b.transform)
	temporal := analyzers.NewTemporalAnalyzer(buf.SampleRate)
	rhythm := analyzers.NewRhythmAnalyzer(buf.SampleRate, b.config.WindowSize, b.config.HopSize,
		b.config.OnsetGrowth, b.config.DefaultBPM, b.config.MinBPM, b.config.MaxBPM)

	spectrum := spectral.Compute(buf.Samples)
	centroid := spectral.Centroid(spectrum)
	harmonicity, inharmonicity := spectral.Harmonicity(spectrum)

	rms := analyzers.RMS(buf.Samples)
	tempo := rhythm.Tempo(buf.Samples)

	features := &FeatureSet{
		RMS:               rms,
		ZeroCrossingRate:  analyzers.ZeroCrossingRate(buf.Samples),
		SpectralCentroid:  centroid,
		SpectralRolloff:   spectral.Rolloff(spectrum, b.config.RolloffThreshold),
		SpectralBandwidth: spectral.Bandwidth(spectrum, centroid),
		SpectralFlux:      spectral.Flux(buf.Samples),
		Tempo:             tempo,
		RhythmStrength:    rhythm.RhythmStrength(buf.Samples, tempo),
		Harmonicity:       harmonicity,
		Inharmonicity:     inharmonicity,
		Energy:            math.Log10(rms + energyFloor),
		DynamicRange:      temporal.DynamicRange(buf.Samples),
		AttackTime:        temporal.AttackTime(buf.Samples),
		DecayTime:         temporal.DecayTime(buf.Samples),
	}

	fp := &Fingerprint{
		Features:   features,
		Hash:       b.hash(buf.Samples),
		Duration:   buf.Duration(),
		SampleRate: buf.SampleRate,
		Timestamp:  time.Now().UTC(),
	}

	if b.config.EnableKeyDetection {
		chroma := analyzers.NewChromaAnalyzer(b.config.MinChromaFreq)
		fp.Key = chroma.EstimateKey(chroma.Chroma(spectrum))
	}

	b.logger.Debug("Fingerprint built", logging.Fields{
		"hash":        fp.Hash,
		"duration_s":  buf.Seconds(),
		"tempo":       features.Tempo,
		"harmonicity": features.Harmonicity,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})

	return fp
}

// hash folds the waveform into a short identity string: the buffer is
// subsampled at evenly spaced indices, each value scaled by 1e6 and mixed
// into a 32-bit rolling hash (h = (h<<5) - h + v in wrapping signed
// arithmetic), rendered base-16. This is a near-duplicate-detection aid,
// not a cryptographic digest; collisions are expected and acceptable.
func (b *Builder) hash(samples []float64) string {
	var h int32

	if len(samples) > 0 {
		step := len(samples) / b.config.HashPoints
		if step < 1 {
			step = 1
		}

		for i := 0; i < b.config.HashPoints; i++ {
			idx := i * step
			if idx >= len(samples) {
				break
			}
			v := int32(int64(samples[idx] * 1e6))
			h = (h << 5) - h + v
		}
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	return strconv.FormatInt(abs, 16)
}
