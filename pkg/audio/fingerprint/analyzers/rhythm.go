package analyzers

import (
	"github.com/songdna/songdna/pkg/logging"
)

// Onset is one detected energy onset: the index of the analysis window it
// was found in and that window's RMS energy.
type Onset struct {
	Window int     `json:"window"`
	Energy float64 `json:"energy"`
}

// RhythmAnalyzer estimates tempo and rhythm strength from windowed energy
// onsets and raw-sample autocorrelation.
type RhythmAnalyzer struct {
	sampleRate  int
	windowSize  int
	hopSize     int
	onsetGrowth float64
	defaultBPM  float64
	minBPM      float64
	maxBPM      float64
	logger      logging.Logger
}

// NewRhythmAnalyzer creates a rhythm analyzer. onsetGrowth is the energy
// growth ratio an analysis window must reach over the previously recorded
// onset to count as a new onset.
func NewRhythmAnalyzer(sampleRate, windowSize, hopSize int, onsetGrowth, defaultBPM, minBPM, maxBPM float64) *RhythmAnalyzer {
	return &RhythmAnalyzer{
		sampleRate:  sampleRate,
		windowSize:  windowSize,
		hopSize:     hopSize,
		onsetGrowth: onsetGrowth,
		defaultBPM:  defaultBPM,
		minBPM:      minBPM,
		maxBPM:      maxBPM,
		logger: logging.WithFields(logging.Fields{
			"component":   "rhythm_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// Onsets slides the analysis window over the buffer and records a window
// as an onset whenever its RMS energy reaches onsetGrowth times the energy
// of the previously recorded onset. This is a monotonic-growth detector:
// it favors crescendo-style build-ups rather than picking every local
// maximum.
func (ra *RhythmAnalyzer) Onsets(samples []float64) []Onset {
	if ra.windowSize <= 0 || ra.hopSize <= 0 {
		return nil
	}

	var onsets []Onset
	lastEnergy := 0.0
	window := 0

	for start := 0; start+ra.windowSize <= len(samples); start += ra.hopSize {
		energy := RMS(samples[start : start+ra.windowSize])

		if energy > 0 && energy >= lastEnergy*ra.onsetGrowth {
			onsets = append(onsets, Onset{Window: window, Energy: energy})
			lastEnergy = energy
		}

		window++
	}

	return onsets
}

// Tempo converts onset-to-onset gaps into an average beat interval and
// returns 60/interval as BPM. Fewer than two onsets, or an estimate
// outside the configured musical range, falls back to the default tempo.
func (ra *RhythmAnalyzer) Tempo(samples []float64) float64 {
	onsets := ra.Onsets(samples)
	if len(onsets) < 2 || ra.sampleRate <= 0 {
		return ra.defaultBPM
	}

	hopSeconds := float64(ra.hopSize) / float64(ra.sampleRate)
	totalInterval := 0.0

	for i := 1; i < len(onsets); i++ {
		totalInterval += float64(onsets[i].Window-onsets[i-1].Window) * hopSeconds
	}

	avgInterval := totalInterval / float64(len(onsets)-1)
	if avgInterval <= 0 {
		return ra.defaultBPM
	}

	bpm := 60 / avgInterval
	if bpm < ra.minBPM || bpm > ra.maxBPM {
		ra.logger.Debug("Tempo estimate outside musical range, using default", logging.Fields{
			"estimate": bpm,
			"default":  ra.defaultBPM,
		})
		return ra.defaultBPM
	}

	return bpm
}

// RhythmStrength computes the normalized autocorrelation of the raw
// samples over lags within ±20% of the beat interval implied by bpm, and
// returns the maximum correlation clamped to [0, 1].
func (ra *RhythmAnalyzer) RhythmStrength(samples []float64, bpm float64) float64 {
	if len(samples) == 0 || bpm <= 0 || ra.sampleRate <= 0 {
		return 0
	}

	energy := 0.0
	for _, s := range samples {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	beatLag := int(60 / bpm * float64(ra.sampleRate))
	minLag := int(float64(beatLag) * 0.8)
	maxLag := int(float64(beatLag) * 1.2)

	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(samples) {
		maxLag = len(samples) - 1
	}
	if minLag > maxLag {
		return 0
	}

	best := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for i := 0; i+lag < len(samples); i++ {
			corr += samples[i] * samples[i+lag]
		}

		if normalized := corr / energy; normalized > best {
			best = normalized
		}
	}

	if best > 1 {
		best = 1
	}
	return best
}
