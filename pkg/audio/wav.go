package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/songdna/songdna/pkg/logging"
)

// wavHeader is the canonical 44-byte RIFF/WAVE header layout
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BytesPerSec   uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Decoder reads PCM WAV files into SampleBuffers. It represents the scoped
// decode context for a batch of analyses: acquire one, decode every buffer
// you need, then Close it once all derived buffers are finished.
type Decoder struct {
	logger logging.Logger
	closed bool
}

// NewDecoder acquires a decode context
func NewDecoder() *Decoder {
	return &Decoder{
		logger: logging.WithFields(logging.Fields{
			"component": "wav_decoder",
		}),
	}
}

// Close releases the decode context. Buffers already decoded remain valid;
// further DecodeFile calls fail.
func (d *Decoder) Close() error {
	d.closed = true
	return nil
}

// DecodeFile reads a 16-bit PCM WAV file and returns channel 0 as a
// SampleBuffer with samples normalized to [-1, 1].
func (d *Decoder) DecodeFile(path string) (*SampleBuffer, error) {
	if d.closed {
		return nil, fmt.Errorf("decoder is closed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav file: %w", err)
	}

	buf, err := DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	d.logger.Debug("Decoded wav file", logging.Fields{
		"path":        path,
		"sample_rate": buf.SampleRate,
		"samples":     len(buf.Samples),
		"duration_s":  buf.Seconds(),
	})

	return buf, nil
}

// DecodeWAV parses raw RIFF/WAVE bytes. Only uncompressed 16-bit PCM is
// supported; multi-channel input is reduced to channel 0.
func DecodeWAV(data []byte) (*SampleBuffer, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("file is %d bytes, smaller than a 44-byte WAV header", len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data[:36]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to parse wav header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}
	if header.AudioFormat != 1 {
		return nil, fmt.Errorf("unsupported audio format %d, expected PCM", header.AudioFormat)
	}
	if header.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d, expected 16", header.BitsPerSample)
	}
	if header.NumChannels == 0 {
		return nil, fmt.Errorf("wav header reports zero channels")
	}

	pcm, err := findDataChunk(data)
	if err != nil {
		return nil, err
	}

	channels := int(header.NumChannels)
	frameBytes := channels * 2
	frames := len(pcm) / frameBytes

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		// channel 0 only
		off := i * frameBytes
		raw := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
		samples[i] = float64(raw) / 32768.0
	}

	return &SampleBuffer{
		Samples:    samples,
		SampleRate: int(header.SampleRate),
		Channels:   channels,
	}, nil
}

// findDataChunk walks the RIFF chunk list to locate the PCM payload.
// Some encoders insert LIST/fact chunks between fmt and data, so the
// payload is not always at byte 44.
func findDataChunk(data []byte) ([]byte, error) {
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if id == "data" {
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			return data[body:end], nil
		}

		// chunks are word-aligned
		offset = body + size + (size & 1)
	}

	return nil, fmt.Errorf("wav file has no data chunk")
}
