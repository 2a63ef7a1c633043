// ABOUTME: Tests for the progress clock
// ABOUTME: Tests end-of-track detection, cancellation, and stale frames
package player

import (
	"context"
	"testing"
	"time"
)

// manualFrames lets tests fire display frames one at a time
type manualFrames struct {
	ch chan time.Time
}

func newManualFrames() *manualFrames {
	return &manualFrames{ch: make(chan time.Time, 4)}
}

func (f *manualFrames) Next() <-chan time.Time { return f.ch }

func (f *manualFrames) fire() { f.ch <- time.Time{} }

// startClock runs a progress clock collecting published positions
func startClock(t *testing.T, transport *Transport, frames FrameSource) (*ProgressClock, chan float64) {
	t.Helper()

	ticks := make(chan float64, 16)
	pc := newProgressClock(transport, frames, func(v float64) { ticks <- v })
	go pc.Run()
	return pc, ticks
}

func waitTick(t *testing.T, ticks chan float64) float64 {
	t.Helper()

	select {
	case v := <-ticks:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress tick")
		return 0
	}
}

func waitDone(t *testing.T, pc *ProgressClock) {
	t.Helper()

	select {
	case <-pc.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for clock to stop")
	}
}

func TestProgressPublishesElapsed(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	frames := newManualFrames()
	pc, ticks := startClock(t, transport, frames)
	defer pc.Stop()

	engine.now = 1.5
	frames.fire()
	if got := waitTick(t, ticks); got != 1.5 {
		t.Errorf("expected tick 1.5, got %v", got)
	}

	engine.now = 4.0
	frames.fire()
	if got := waitTick(t, ticks); got != 4.0 {
		t.Errorf("expected tick 4.0, got %v", got)
	}
}

func TestProgressEndOfTrackStops(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(5))
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	frames := newManualFrames()
	pc, ticks := startClock(t, transport, frames)

	// Clock runs past the end: position clamps to duration, transport
	// pauses, loop terminates
	engine.now = 5.3
	frames.fire()

	if got := waitTick(t, ticks); got != 5.0 {
		t.Errorf("expected final tick at duration 5.0, got %v", got)
	}
	waitDone(t, pc)

	if transport.State() != StatePaused {
		t.Errorf("expected transport paused at end, got %v", transport.State())
	}
	if transport.Elapsed() != 5.0 {
		t.Errorf("expected position 5.0, got %v", transport.Elapsed())
	}

	// A stale frame after termination publishes nothing
	frames.fire()
	select {
	case v := <-ticks:
		t.Errorf("unexpected tick %v after end-of-track", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProgressStopCancelsLoop(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	frames := newManualFrames()
	pc, ticks := startClock(t, transport, frames)

	pc.Stop()
	waitDone(t, pc)

	frames.fire()
	select {
	case v := <-ticks:
		t.Errorf("unexpected tick %v after Stop", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProgressExitsWhenNotPlaying(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	frames := newManualFrames()
	pc, ticks := startClock(t, transport, frames)

	// User pause between frames: the next frame is a no-op and ends the loop
	transport.Pause()
	frames.fire()

	waitDone(t, pc)
	select {
	case v := <-ticks:
		t.Errorf("unexpected tick %v after pause", v)
	default:
	}
}
