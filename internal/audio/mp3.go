// ABOUTME: MP3 payload decoder
// ABOUTME: Decodes MP3 podcast audio and downmixes to a mono Buffer
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 converts an MP3 payload into a normalized mono sample buffer.
// go-mp3 always emits 16-bit stereo, so both channels are averaged down.
// The buffer's sample rate comes from the stream, not from configuration.
func DecodeMP3(data []byte) (*Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3 payload unreadable: %v: %w", err, ErrMalformed)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode failed: %v: %w", err, ErrMalformed)
	}

	return &Buffer{
		SampleRate: decoder.SampleRate(),
		Channels:   1,
		Samples:    monoFromStereo16(pcm),
	}, nil
}

// monoFromStereo16 averages interleaved 16-bit little-endian stereo frames
// into normalized mono samples. A trailing partial frame is dropped.
func monoFromStereo16(pcm []byte) []float32 {
	numFrames := len(pcm) / 4
	samples := make([]float32, numFrames)
	for i := 0; i < numFrames; i++ {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		samples[i] = (SampleFromInt16(left) + SampleFromInt16(right)) / 2
	}
	return samples
}
