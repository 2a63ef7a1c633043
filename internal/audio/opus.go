// ABOUTME: Opus payload decoder
// ABOUTME: Decodes length-prefixed Opus packets to a mono Buffer
package audio

import (
	"encoding/binary"
	"fmt"

	"gopkg.in/hraban/opus.v2"
)

// maxOpusFrameSamples is the largest frame Opus allows (120ms at 48kHz).
const maxOpusFrameSamples = 5760

// DecodeOpus converts an Opus payload into a normalized mono sample buffer.
// The payload is a concatenation of packets, each preceded by a uint16
// little-endian byte length. A truncated packet fails with ErrMalformed.
func DecodeOpus(data []byte, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d: %w", sampleRate, ErrMalformed)
	}

	decoder, err := opus.NewDecoder(sampleRate, 1)
	if err != nil {
		return nil, fmt.Errorf("opus decoder init failed: %v: %w", err, ErrEngineUnavailable)
	}

	var samples []float32
	pcm16 := make([]int16, maxOpusFrameSamples)

	for len(data) > 0 {
		if len(data) < 2 {
			return nil, fmt.Errorf("truncated packet header: %w", ErrMalformed)
		}
		packetLen := int(binary.LittleEndian.Uint16(data))
		data = data[2:]
		if packetLen > len(data) {
			return nil, fmt.Errorf("truncated packet body: %w", ErrMalformed)
		}

		n, err := decoder.Decode(data[:packetLen], pcm16)
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %v: %w", err, ErrMalformed)
		}
		data = data[packetLen:]

		for _, v := range pcm16[:n] {
			samples = append(samples, SampleFromInt16(v))
		}
	}

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   1,
		Samples:    samples,
	}, nil
}
