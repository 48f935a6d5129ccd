package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMS(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"all_zero", make([]float64, 100), 0},
		{"unit", []float64{1, 1, 1, 1}, 1},
		{"alternating", []float64{1, -1, 1, -1}, 1},
		{"half", []float64{0.5, -0.5}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RMS(tt.samples), 1e-12)
		})
	}
}

func TestZeroCrossingRate(t *testing.T) {
	assert.Zero(t, ZeroCrossingRate(nil))
	assert.Zero(t, ZeroCrossingRate(make([]float64, 50)))

	// identical sign everywhere means no crossings
	positive := []float64{0.2, 0.5, 0.1, 0.9, 0.3}
	assert.Zero(t, ZeroCrossingRate(positive))

	// alternating signs cross at every step
	alternating := []float64{1, -1, 1, -1}
	assert.InDelta(t, 0.75, ZeroCrossingRate(alternating), 1e-12)

	// zero counts as non-negative
	withZero := []float64{-1, 0, -1}
	assert.InDelta(t, 2.0/3.0, ZeroCrossingRate(withZero), 1e-12)
}

func TestZeroCrossingRateScalesWithFrequency(t *testing.T) {
	low := genSine(100, 8000, 8000)
	high := genSine(1000, 8000, 8000)

	assert.Greater(t, ZeroCrossingRate(high), ZeroCrossingRate(low))
}

func TestFindPeaks(t *testing.T) {
	samples := []float64{0, 0.9, 0, -0.8, 0, 0.3, 0}

	peaks := FindPeaks(samples, 0.5)
	require.Len(t, peaks, 2)

	assert.Equal(t, 1, peaks[0].Index)
	assert.InDelta(t, 0.9, peaks[0].Value, 1e-12)
	assert.Equal(t, 3, peaks[1].Index)
	assert.InDelta(t, -0.8, peaks[1].Value, 1e-12)

	// threshold excludes the small bump
	assert.Len(t, FindPeaks(samples, 0.85), 1)
	assert.Empty(t, FindPeaks(nil, 0.5))
}

func TestDynamicRange(t *testing.T) {
	ta := NewTemporalAnalyzer(8000)

	assert.Zero(t, ta.DynamicRange(nil))
	assert.Zero(t, ta.DynamicRange(make([]float64, 1000)))

	// constant amplitude has no dynamic range
	constant := make([]float64, 1000)
	for i := range constant {
		constant[i] = 0.5
	}
	assert.InDelta(t, 0, ta.DynamicRange(constant), 1e-9)

	// loud half followed by quiet half spans 20 dB
	mixed := make([]float64, 1000)
	for i := range mixed {
		if i < 500 {
			mixed[i] = 1.0
		} else {
			mixed[i] = 0.1
		}
	}
	assert.InDelta(t, 20, ta.DynamicRange(mixed), 1e-6)
}

func TestAttackAndDecay(t *testing.T) {
	sampleRate := 1000
	ta := NewTemporalAnalyzer(sampleRate)

	assert.Zero(t, ta.AttackTime(nil))
	assert.Zero(t, ta.DecayTime(nil))
	assert.Zero(t, ta.AttackTime(make([]float64, 100)))
	assert.Zero(t, ta.DecayTime(make([]float64, 100)))

	// linear ramp up then down
	n := 1000
	samples := make([]float64, n)
	for i := range samples {
		if i < n/2 {
			samples[i] = float64(i) / float64(n/2)
		} else {
			samples[i] = float64(n-i) / float64(n/2)
		}
	}

	attack := ta.AttackTime(samples)
	assert.Greater(t, attack, 0.0)
	assert.Less(t, attack, 0.5)

	decay := ta.DecayTime(samples)
	assert.Greater(t, decay, 0.0)
	// the ramp falls below 10% of peak near the end of the buffer
	assert.InDelta(t, 0.45, decay, 0.01)
}

func TestDecayTimeRunsToBufferEnd(t *testing.T) {
	sampleRate := 100
	ta := NewTemporalAnalyzer(sampleRate)

	// signal never falls below 10% of its peak
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 0.5 + 0.01*math.Sin(float64(i))
	}

	decay := ta.DecayTime(samples)
	assert.Greater(t, decay, 0.0)
	assert.LessOrEqual(t, decay, float64(len(samples)-1)/float64(sampleRate))
}
