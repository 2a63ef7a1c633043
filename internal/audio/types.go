// ABOUTME: Audio type definitions
// ABOUTME: Defines payload codecs and decoded sample buffers
package audio

// Payload codecs the companion service may ship podcast audio in.
const (
	CodecPCM  = "pcm"
	CodecMP3  = "mp3"
	CodecOpus = "opus"
)

// DefaultSampleRate is the rate the generation service produces PCM at.
// It is a configuration default, not a property of all payloads.
const DefaultSampleRate = 24000

// Buffer represents decoded mono audio as normalized float samples.
// A Buffer is immutable once created; a new payload produces a new Buffer.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32 // amplitudes in [-1.0, 1.0]
}

// Duration returns the playable length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 || b.Channels <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate*b.Channels)
}

// SampleFromInt16 normalizes a signed 16-bit sample to [-1.0, 0.999969...].
// Divides by 32768 so that -32768 maps exactly to -1.0.
func SampleFromInt16(v int16) float32 {
	return float32(v) / 32768.0
}
