// ABOUTME: Playback progress clock
// ABOUTME: Polls elapsed time at display cadence and detects end-of-track
package player

import (
	"context"
	"time"
)

// displayFrameInterval approximates a 60Hz display cadence.
const displayFrameInterval = 16 * time.Millisecond

// FrameSource schedules the next progress sample. Each call arms a single
// frame; the clock re-arms only after the previous sample completes, so
// samples never overlap.
type FrameSource interface {
	Next() <-chan time.Time
}

// tickerFrames fires at a fixed interval
type tickerFrames struct {
	interval time.Duration
}

func (f tickerFrames) Next() <-chan time.Time {
	return time.After(f.interval)
}

// ProgressClock samples a transport's elapsed time while it plays and
// publishes the current position. When the audio clock runs past the
// buffer duration it pauses the transport at the duration and terminates;
// this is the sole end-of-track mechanism. One clock serves one playback
// run: Stop it on pause, buffer swap, and teardown.
type ProgressClock struct {
	transport *Transport
	frames    FrameSource
	onTick    func(currentTime float64)
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewProgressClock creates a clock publishing positions to onTick.
func NewProgressClock(transport *Transport, onTick func(float64)) *ProgressClock {
	return newProgressClock(transport, tickerFrames{interval: displayFrameInterval}, onTick)
}

func newProgressClock(transport *Transport, frames FrameSource, onTick func(float64)) *ProgressClock {
	ctx, cancel := context.WithCancel(context.Background())

	return &ProgressClock{
		transport: transport,
		frames:    frames,
		onTick:    onTick,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Run drives the sampling loop until cancellation or end-of-track.
// Call from a goroutine.
func (pc *ProgressClock) Run() {
	defer close(pc.done)

	for {
		select {
		case <-pc.ctx.Done():
			return
		case <-pc.frames.Next():
		}

		// A frame that fires after a pause or buffer swap is a no-op
		if pc.ctx.Err() != nil || !pc.transport.Playing() {
			return
		}

		elapsed := pc.transport.Elapsed()
		duration := pc.transport.Duration()

		if elapsed > duration {
			pc.transport.finish()
			pc.onTick(duration)
			return
		}

		pc.onTick(elapsed)
	}
}

// Stop cancels the loop. No further samples are published after Done.
func (pc *ProgressClock) Stop() {
	pc.cancel()
}

// Done is closed once the loop has fully terminated.
func (pc *ProgressClock) Done() <-chan struct{} {
	return pc.done
}
