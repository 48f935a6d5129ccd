package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpectralAnalyzer(sampleRate int) *SpectralAnalyzer {
	return NewSpectralAnalyzer(sampleRate, 1024, 512, nil)
}

func TestComputeSpectrumShape(t *testing.T) {
	sa := newTestSpectralAnalyzer(8000)

	spec := sa.Compute(genSine(440, 8000, 1024))
	require.Len(t, spec.Magnitudes, 513)
	assert.Equal(t, 1024, spec.N)

	empty := sa.Compute(nil)
	assert.Empty(t, empty.Magnitudes)
}

func TestSpectrumFrequencyMapping(t *testing.T) {
	spec := &Spectrum{N: 1024, SampleRate: 8000}

	assert.InDelta(t, 0, spec.Frequency(0), 1e-12)
	assert.InDelta(t, 7.8125, spec.Frequency(1), 1e-12)
	assert.InDelta(t, 4000, spec.Frequency(512), 1e-12)
	assert.InDelta(t, 4000, spec.Nyquist(), 1e-12)
}

func TestCentroidPureTone(t *testing.T) {
	// 1 second of 440 Hz at 44.1 kHz: an exact integer number of cycles,
	// so energy lands in a single bin and the centroid sits at 440 Hz.
	sampleRate := 44100
	sa := newTestSpectralAnalyzer(sampleRate)

	spec := sa.Compute(genSine(440, sampleRate, sampleRate))
	centroid := sa.Centroid(spec)

	assert.InDelta(t, 440, centroid, 5)
}

func TestCentroidSilence(t *testing.T) {
	sa := newTestSpectralAnalyzer(8000)

	assert.Zero(t, sa.Centroid(sa.Compute(make([]float64, 1024))))
	assert.Zero(t, sa.Centroid(sa.Compute(nil)))
}

func TestRolloff(t *testing.T) {
	sampleRate := 8000
	sa := newTestSpectralAnalyzer(sampleRate)

	// pure tone: 85% of energy is contained at the tone's bin
	spec := sa.Compute(genSine(500, sampleRate, sampleRate))
	rolloff := sa.Rolloff(spec, 0.85)
	assert.InDelta(t, 500, rolloff, 10)

	// silence
	assert.Zero(t, sa.Rolloff(sa.Compute(make([]float64, 512)), 0.85))
}

func TestRolloffNyquistFallback(t *testing.T) {
	// a spectrum whose cumulative energy never reaches an impossible
	// threshold rolls off at Nyquist
	spec := &Spectrum{
		Magnitudes: []float64{1, 1, 1, 1},
		N:          8,
		SampleRate: 8000,
	}
	sa := newTestSpectralAnalyzer(8000)

	assert.InDelta(t, 4000, sa.Rolloff(spec, 1.1), 1e-12)
}

func TestBandwidthPureToneVsNoise(t *testing.T) {
	sampleRate := 8000
	sa := newTestSpectralAnalyzer(sampleRate)

	tone := sa.Compute(genSine(500, sampleRate, 4096))
	noise := sa.Compute(genNoise(4096, 7))

	toneBW := sa.Bandwidth(tone, sa.Centroid(tone))
	noiseBW := sa.Bandwidth(noise, sa.Centroid(noise))

	assert.Less(t, toneBW, noiseBW)
	assert.Zero(t, sa.Bandwidth(sa.Compute(nil), 0))
}

func TestFlux(t *testing.T) {
	sampleRate := 8000
	sa := newTestSpectralAnalyzer(sampleRate)

	// stationary signal: successive windows have identical spectra
	assert.InDelta(t, 0, sa.Flux(genSine(500, sampleRate, 4096)), 1e-6)

	// buffer shorter than two analysis windows
	assert.Zero(t, sa.Flux(genSine(500, sampleRate, 1024)))
	assert.Zero(t, sa.Flux(nil))

	// silence followed by a tone produces positive flux
	changing := make([]float64, 4096)
	copy(changing[2048:], genSine(500, sampleRate, 2048))
	assert.Greater(t, sa.Flux(changing), 0.0)
}

func TestHarmonicityPureTone(t *testing.T) {
	sampleRate := 44100
	sa := newTestSpectralAnalyzer(sampleRate)

	spec := sa.Compute(genSine(440, sampleRate, sampleRate))
	harmonicity, inharmonicity := sa.Harmonicity(spec)

	assert.Greater(t, harmonicity, 0.9)
	assert.InDelta(t, 1, harmonicity+inharmonicity, 1e-12)
}

func TestHarmonicitySilence(t *testing.T) {
	sa := newTestSpectralAnalyzer(8000)

	harmonicity, inharmonicity := sa.Harmonicity(sa.Compute(make([]float64, 1024)))
	assert.Zero(t, harmonicity)
	assert.InDelta(t, 1, inharmonicity, 1e-12)
}

func TestHarmonicityNoiseIsLower(t *testing.T) {
	sampleRate := 8000
	sa := newTestSpectralAnalyzer(sampleRate)

	tone, _ := sa.Harmonicity(sa.Compute(genSine(440, sampleRate, 8192)))
	noise, _ := sa.Harmonicity(sa.Compute(genNoise(8192, 99)))

	assert.Greater(t, tone, noise)
}
