// ABOUTME: PCM payload decoder
// ABOUTME: Decodes base64-encoded 16-bit little-endian mono PCM to a Buffer
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed indicates a payload that cannot be interpreted as
// 16-bit little-endian PCM.
var ErrMalformed = errors.New("malformed audio payload")

// ErrEngineUnavailable indicates the underlying audio subsystem could not
// be constructed (unsupported sample rate, resource exhaustion). Surfaced
// to the host as "audio unavailable", never fatal to the process.
var ErrEngineUnavailable = errors.New("audio engine unavailable")

// DecodePCM converts a base64-encoded 16-bit signed little-endian mono PCM
// payload into a normalized sample buffer. An odd decoded byte length fails
// with ErrMalformed rather than silently dropping the trailing byte: the
// payload is machine-generated, so a half sample means the producer or the
// transfer is broken.
func DecodePCM(payload string, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d: %w", sampleRate, ErrMalformed)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %v: %w", err, ErrMalformed)
	}

	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("odd byte length %d: %w", len(raw), ErrMalformed)
	}

	numSamples := len(raw) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = SampleFromInt16(sample16)
	}

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   1,
		Samples:    samples,
	}, nil
}
