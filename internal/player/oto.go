// ABOUTME: Oto-based playback engine
// ABOUTME: Drives the output device and audio clock via the oto library
package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coursely/coursely-go/internal/audio"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process, so the device context is shared
// across engines and pinned to the first sample rate requested.
var (
	otoMu     sync.Mutex
	otoShared *oto.Context
	otoRate   int
)

// OtoEngine plays decoded buffers through the system output device.
type OtoEngine struct {
	otoCtx *oto.Context
	epoch  time.Time
}

// NewOtoEngine acquires an output context pinned to the given sample rate.
func NewOtoEngine(sampleRate int) (*OtoEngine, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoShared == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("oto context failed: %v: %w", err, audio.ErrEngineUnavailable)
		}
		<-readyChan

		otoShared = ctx
		otoRate = sampleRate
		log.Printf("Audio output initialized: %dHz mono", sampleRate)
	} else if otoRate != sampleRate {
		// oto cannot be reinitialized; keep the existing device rate
		log.Printf("Warning: output pinned to %dHz, payload wants %dHz", otoRate, sampleRate)
	}

	return &OtoEngine{
		otoCtx: otoShared,
		epoch:  time.Now(),
	}, nil
}

// Now returns seconds on the engine's monotonic clock.
func (e *OtoEngine) Now() float64 {
	return time.Since(e.epoch).Seconds()
}

// Resume wakes the output device if the platform suspended it.
func (e *OtoEngine) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.otoCtx.Resume(); err != nil {
		return fmt.Errorf("output resume failed: %w", err)
	}
	return nil
}

// Start begins output of buf at the given offset in seconds.
func (e *OtoEngine) Start(buf *audio.Buffer, offset float64) (Session, error) {
	startSample := int(offset * float64(buf.SampleRate))
	if startSample < 0 {
		startSample = 0
	}
	if startSample > len(buf.Samples) {
		startSample = len(buf.Samples)
	}

	pcm := pcm16Bytes(buf.Samples[startSample:])
	player := e.otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	return &otoSession{player: player}, nil
}

// Close releases the engine. The shared oto context survives for the next
// engine since the library does not support teardown.
func (e *OtoEngine) Close() error {
	e.otoCtx = nil
	return nil
}

// otoSession wraps one oto player run
type otoSession struct {
	player *oto.Player
	once   sync.Once
}

func (s *otoSession) Stop() {
	s.once.Do(func() {
		s.player.Pause()
		if err := s.player.Close(); err != nil {
			log.Printf("Error closing oto player: %v", err)
		}
	})
}

// pcm16Bytes converts normalized samples to signed 16-bit little-endian
// bytes for the output device.
func pcm16Bytes(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}
