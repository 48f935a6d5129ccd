package analyzers

import "math"

// dynamicRangeWindows is the number of equal windows the buffer is split
// into for dynamic range estimation.
const dynamicRangeWindows = 100

// TemporalAnalyzer computes time-domain statistics directly on sample
// arrays. All operations are pure functions of their input and fall back
// to 0 on empty or degenerate buffers.
type TemporalAnalyzer struct {
	sampleRate int
}

// Peak is a local extremum found by FindPeaks
type Peak struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// NewTemporalAnalyzer creates a time-domain analyzer
func NewTemporalAnalyzer(sampleRate int) *TemporalAnalyzer {
	return &TemporalAnalyzer{sampleRate: sampleRate}
}

// RMS computes root-mean-square amplitude. Empty input returns 0.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sumSquares := 0.0
	for _, s := range samples {
		sumSquares += s * s
	}

	return math.Sqrt(sumSquares / float64(len(samples)))
}

// ZeroCrossingRate counts adjacent-sample sign changes, treating 0 as
// non-negative, divided by the sample count.
func ZeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}

	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0) != (samples[i-1] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(samples))
}

// FindPeaks returns local extrema whose absolute value exceeds threshold
// and exceeds both neighbors in magnitude.
func FindPeaks(samples []float64, threshold float64) []Peak {
	var peaks []Peak

	for i := 1; i < len(samples)-1; i++ {
		mag := math.Abs(samples[i])
		if mag > threshold &&
			mag > math.Abs(samples[i-1]) &&
			mag > math.Abs(samples[i+1]) {
			peaks = append(peaks, Peak{Index: i, Value: samples[i]})
		}
	}

	return peaks
}

// DynamicRange computes 20·log10(maxWindowRMS / minNonZeroWindowRMS) over
// ~100 equal windows. Returns 0 when no window carries energy.
func (ta *TemporalAnalyzer) DynamicRange(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	windowSize := len(samples) / dynamicRangeWindows
	if windowSize < 1 {
		windowSize = 1
	}

	maxRMS := 0.0
	minRMS := math.Inf(1)

	for start := 0; start < len(samples); start += windowSize {
		end := min(start+windowSize, len(samples))
		rms := RMS(samples[start:end])

		if rms > maxRMS {
			maxRMS = rms
		}
		if rms > 0 && rms < minRMS {
			minRMS = rms
		}
	}

	if maxRMS == 0 || math.IsInf(minRMS, 1) {
		return 0
	}

	return 20 * math.Log10(maxRMS/minRMS)
}

// AttackTime measures seconds from the first sample exceeding 10% of the
// global RMS to the first subsequent sample exceeding 90% of the peak
// magnitude. Returns 0 when either crossing is never found.
func (ta *TemporalAnalyzer) AttackTime(samples []float64) float64 {
	if len(samples) == 0 || ta.sampleRate <= 0 {
		return 0
	}

	rms := RMS(samples)
	peak := peakMagnitude(samples)
	if rms == 0 || peak == 0 {
		return 0
	}

	start := -1
	for i, s := range samples {
		if math.Abs(s) > 0.1*rms {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}

	for i := start; i < len(samples); i++ {
		if math.Abs(samples[i]) > 0.9*peak {
			return float64(i-start) / float64(ta.sampleRate)
		}
	}

	return 0
}

// DecayTime measures seconds from the global peak sample to the first
// subsequent sample falling below 10% of the peak magnitude, or to the end
// of the buffer if the signal never decays that far.
func (ta *TemporalAnalyzer) DecayTime(samples []float64) float64 {
	if len(samples) == 0 || ta.sampleRate <= 0 {
		return 0
	}

	peakIdx := 0
	peak := 0.0
	for i, s := range samples {
		if mag := math.Abs(s); mag > peak {
			peak = mag
			peakIdx = i
		}
	}
	if peak == 0 {
		return 0
	}

	for i := peakIdx; i < len(samples); i++ {
		if math.Abs(samples[i]) < 0.1*peak {
			return float64(i-peakIdx) / float64(ta.sampleRate)
		}
	}

	return float64(len(samples)-1-peakIdx) / float64(ta.sampleRate)
}

func peakMagnitude(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if mag := math.Abs(s); mag > peak {
			peak = mag
		}
	}
	return peak
}
