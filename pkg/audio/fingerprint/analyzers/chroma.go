package analyzers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Krumhansl-Schmuckler key profiles: perceived stability of each pitch
// class relative to the tonic, for major and minor keys.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

	pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
)

// KeyUnknown is returned when no tonal content can be established
const KeyUnknown = "Unknown"

// ChromaAnalyzer folds a magnitude spectrum into 12 pitch classes and
// estimates the musical key by profile correlation.
type ChromaAnalyzer struct {
	minFrequency float64
}

// NewChromaAnalyzer creates a chroma analyzer. Content below minFrequency
// (typically 20 Hz) is excluded from the pitch class projection.
func NewChromaAnalyzer(minFrequency float64) *ChromaAnalyzer {
	return &ChromaAnalyzer{minFrequency: minFrequency}
}

// Chroma projects squared spectral magnitudes onto the 12 pitch classes
// and normalizes the result to sum to 1. A silent spectrum yields an
// all-zero vector.
func (ca *ChromaAnalyzer) Chroma(spec *Spectrum) [12]float64 {
	var chroma [12]float64

	for i := 1; i < len(spec.Magnitudes); i++ {
		freq := spec.Frequency(i)
		if freq < ca.minFrequency {
			continue
		}

		midi := 69 + 12*math.Log2(freq/440.0)
		pc := ((int(math.Round(midi)) % 12) + 12) % 12
		chroma[pc] += spec.Magnitudes[i] * spec.Magnitudes[i]
	}

	total := floats.Sum(chroma[:])
	if total > 0 {
		for i := range chroma {
			chroma[i] /= total
		}
	}

	return chroma
}

// EstimateKey correlates the chroma vector against all 24 rotated
// major/minor profiles and names the best match, e.g. "A minor".
func (ca *ChromaAnalyzer) EstimateKey(chroma [12]float64) string {
	if floats.Sum(chroma[:]) == 0 {
		return KeyUnknown
	}

	bestCorr := math.Inf(-1)
	bestKey := KeyUnknown

	for tonic := 0; tonic < 12; tonic++ {
		majorCorr := stat.Correlation(chroma[:], rotateProfile(majorProfile, tonic), nil)
		if majorCorr > bestCorr {
			bestCorr = majorCorr
			bestKey = fmt.Sprintf("%s major", pitchClassNames[tonic])
		}

		minorCorr := stat.Correlation(chroma[:], rotateProfile(minorProfile, tonic), nil)
		if minorCorr > bestCorr {
			bestCorr = minorCorr
			bestKey = fmt.Sprintf("%s minor", pitchClassNames[tonic])
		}
	}

	return bestKey
}

// rotateProfile shifts a key profile so that the tonic lands on the given
// pitch class.
func rotateProfile(profile []float64, tonic int) []float64 {
	rotated := make([]float64, len(profile))
	for i := range profile {
		rotated[(i+tonic)%len(profile)] = profile[i]
	}
	return rotated
}
