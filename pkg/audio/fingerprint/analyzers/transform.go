package analyzers

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Transform converts a real-valued sample window of length N into its
// N-bin complex discrete Fourier spectrum. Only bins 0..N/2 are meaningful
// for magnitude features; callers slice as needed. No window function is
// applied internally.
type Transform interface {
	Transform(window []float64) []complex128
}

// FFTTransform computes the spectrum with mjibson/go-dsp. Handles any
// window length, including non-power-of-2. This is the default transform.
type FFTTransform struct{}

// NewFFTTransform creates the production transform
func NewFFTTransform() *FFTTransform {
	return &FFTTransform{}
}

func (t *FFTTransform) Transform(window []float64) []complex128 {
	if len(window) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(window)
}

// DFTTransform is the direct-summation reference transform:
// bin k = Σ sample[n]·e^{-2πikn/N}. It is O(N²) and exists as the numeric
// reference the fast transform is verified against.
type DFTTransform struct{}

// NewDFTTransform creates the reference transform
func NewDFTTransform() *DFTTransform {
	return &DFTTransform{}
}

func (t *DFTTransform) Transform(window []float64) []complex128 {
	n := len(window)
	spectrum := make([]complex128, n)

	for k := 0; k < n; k++ {
		var re, im float64
		for i, sample := range window {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += sample * math.Cos(angle)
			im += sample * math.Sin(angle)
		}
		spectrum[k] = complex(re, im)
	}

	return spectrum
}
