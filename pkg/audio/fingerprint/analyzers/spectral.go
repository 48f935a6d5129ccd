package analyzers

import (
	"math"
	"math/cmplx"

	"github.com/songdna/songdna/pkg/logging"
)

// Spectrum holds the magnitude spectrum of one analysis window: bins
// 0..N/2 of an N-point transform. Derived data, consumed immediately by
// whichever feature asked for it and never persisted.
type Spectrum struct {
	Magnitudes []float64
	N          int
	SampleRate int
}

// Frequency returns the center frequency of bin i
func (s *Spectrum) Frequency(i int) float64 {
	if s.N == 0 {
		return 0
	}
	return float64(i) * float64(s.SampleRate) / float64(s.N)
}

// Nyquist returns the highest representable frequency
func (s *Spectrum) Nyquist() float64 {
	return float64(s.SampleRate) / 2
}

// SpectralAnalyzer computes frequency-domain features through a Transform
type SpectralAnalyzer struct {
	sampleRate int
	transform  Transform
	windowSize int
	hopSize    int
	logger     logging.Logger
}

// NewSpectralAnalyzer creates a frequency-domain analyzer. windowSize and
// hopSize drive the framed features (spectral flux); whole-buffer features
// transform the entire input at once.
func NewSpectralAnalyzer(sampleRate, windowSize, hopSize int, transform Transform) *SpectralAnalyzer {
	if transform == nil {
		transform = NewFFTTransform()
	}

	return &SpectralAnalyzer{
		sampleRate: sampleRate,
		transform:  transform,
		windowSize: windowSize,
		hopSize:    hopSize,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// Compute transforms the given samples and keeps the meaningful half of
// the spectrum (bins 0..N/2).
func (sa *SpectralAnalyzer) Compute(samples []float64) *Spectrum {
	n := len(samples)
	spec := &Spectrum{N: n, SampleRate: sa.sampleRate}
	if n == 0 {
		return spec
	}

	bins := sa.transform.Transform(samples)
	half := n/2 + 1

	spec.Magnitudes = make([]float64, half)
	for i := 0; i < half; i++ {
		spec.Magnitudes[i] = cmplx.Abs(bins[i])
	}

	return spec
}

// Centroid computes the magnitude-weighted mean frequency. Zero total
// magnitude returns 0.
func (sa *SpectralAnalyzer) Centroid(spec *Spectrum) float64 {
	numerator := 0.0
	denominator := 0.0

	for i, mag := range spec.Magnitudes {
		numerator += spec.Frequency(i) * mag
		denominator += mag
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// Rolloff finds the lowest frequency below which the given fraction of
// cumulative squared-magnitude energy is contained. Returns the Nyquist
// frequency when the threshold is never reached and 0 for a silent
// spectrum.
func (sa *SpectralAnalyzer) Rolloff(spec *Spectrum, threshold float64) float64 {
	totalEnergy := 0.0
	for _, mag := range spec.Magnitudes {
		totalEnergy += mag * mag
	}

	if totalEnergy == 0 {
		return 0
	}

	target := threshold * totalEnergy
	cumulative := 0.0

	for i, mag := range spec.Magnitudes {
		cumulative += mag * mag
		if cumulative >= target {
			return spec.Frequency(i)
		}
	}

	return spec.Nyquist()
}

// Bandwidth computes the magnitude-weighted second moment around the
// centroid (spectral spread).
func (sa *SpectralAnalyzer) Bandwidth(spec *Spectrum, centroid float64) float64 {
	numerator := 0.0
	denominator := 0.0

	for i, mag := range spec.Magnitudes {
		diff := spec.Frequency(i) - centroid
		numerator += diff * diff * mag
		denominator += mag
	}

	if denominator == 0 {
		return 0
	}

	return math.Sqrt(numerator / denominator)
}

// Flux sums the positive per-bin magnitude differences between the spectra
// of successive analysis windows. Buffers shorter than two windows yield 0.
func (sa *SpectralAnalyzer) Flux(samples []float64) float64 {
	if sa.windowSize <= 0 || sa.hopSize <= 0 || len(samples) < sa.windowSize+sa.hopSize {
		return 0
	}

	flux := 0.0
	var prev *Spectrum

	for start := 0; start+sa.windowSize <= len(samples); start += sa.hopSize {
		spec := sa.Compute(samples[start : start+sa.windowSize])

		if prev != nil {
			for i, mag := range spec.Magnitudes {
				if diff := mag - prev.Magnitudes[i]; diff > 0 {
					flux += diff
				}
			}
		}

		prev = spec
	}

	return flux
}

// Harmonicity measures the fraction of squared-magnitude energy within ±2
// bins of the first 10 integer multiples of the strongest bin. Returns
// (harmonicity, inharmonicity); the pair sums to 1, with the
// silent/DC-dominant case defined as harmonicity 0.
func (sa *SpectralAnalyzer) Harmonicity(spec *Spectrum) (float64, float64) {
	fundamental := 0
	maxMag := 0.0
	totalEnergy := 0.0

	for i, mag := range spec.Magnitudes {
		totalEnergy += mag * mag
		if mag > maxMag {
			maxMag = mag
			fundamental = i
		}
	}

	if fundamental == 0 || totalEnergy == 0 {
		return 0, 1
	}

	harmonicEnergy := 0.0
	for harmonic := 1; harmonic <= 10; harmonic++ {
		center := fundamental * harmonic
		if center >= len(spec.Magnitudes) {
			break
		}

		lo := max(center-2, 0)
		hi := min(center+2, len(spec.Magnitudes)-1)
		for i := lo; i <= hi; i++ {
			harmonicEnergy += spec.Magnitudes[i] * spec.Magnitudes[i]
		}
	}

	harmonicity := harmonicEnergy / totalEnergy
	if harmonicity > 1 {
		harmonicity = 1
	}

	return harmonicity, 1 - harmonicity
}
