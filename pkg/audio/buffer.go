package audio

import "time"

// SampleBuffer holds one channel of decoded PCM audio.
//
// The buffer is owned by the caller for the duration of a single analysis
// call; the analysis engine never retains a reference to it or mutates it
// after returning. Multiple buffers may therefore be analyzed in parallel
// with no coordination.
type SampleBuffer struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"`
}

// Duration returns the buffer length in seconds
func (b *SampleBuffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	seconds := float64(len(b.Samples)) / float64(b.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// Seconds returns the buffer length as a float, for feature math
func (b *SampleBuffer) Seconds() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Empty reports whether the buffer carries no samples
func (b *SampleBuffer) Empty() bool {
	return b == nil || len(b.Samples) == 0
}
