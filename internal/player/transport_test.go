// ABOUTME: Tests for the playback transport
// ABOUTME: Tests pause/resume offsets, replay-from-finished, and error paths
package player

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/coursely/coursely-go/internal/audio"
)

// fakeEngine is a manually-advanced audio clock with scripted failures
type fakeEngine struct {
	now       float64
	resumeErr error
	startErr  error
	starts    []float64 // offsets passed to Start
	stops     int
}

func (f *fakeEngine) Now() float64 { return f.now }

func (f *fakeEngine) Resume(ctx context.Context) error { return f.resumeErr }

func (f *fakeEngine) Start(buf *audio.Buffer, offset float64) (Session, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.starts = append(f.starts, offset)
	return &fakeSession{engine: f}, nil
}

func (f *fakeEngine) Close() error { return nil }

type fakeSession struct {
	engine *fakeEngine
}

func (s *fakeSession) Stop() { s.engine.stops++ }

// testBuffer builds a buffer with the given duration in seconds
func testBuffer(seconds float64) *audio.Buffer {
	rate := 24000
	return &audio.Buffer{
		SampleRate: rate,
		Channels:   1,
		Samples:    make([]float32, int(seconds*float64(rate))),
	}
}

func TestPlayWithoutBufferIsNoOp(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)

	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(engine.starts) != 0 {
		t.Error("engine should not have been started")
	}
	if transport.State() != StateIdle {
		t.Errorf("expected idle, got %v", transport.State())
	}
}

func TestPauseResumePreservesOffset(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))

	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	// Advance the audio clock 3s, then pause
	engine.now += 3.0
	transport.Pause()

	if got := transport.Elapsed(); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("expected elapsed 3.0 after pause, got %v", got)
	}
	if engine.stops != 1 {
		t.Errorf("expected 1 session stop, got %d", engine.stops)
	}

	// Resume; elapsed must accumulate, not reset
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if engine.starts[1] != 3.0 {
		t.Errorf("expected resume at offset 3.0, got %v", engine.starts[1])
	}

	engine.now += 2.5
	if got := transport.Elapsed(); math.Abs(got-5.5) > 1e-9 {
		t.Errorf("expected elapsed 5.5 after resume, got %v", got)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))

	transport.Pause() // paused/idle: no effect
	if engine.stops != 0 {
		t.Error("pause without playback should not stop anything")
	}

	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	transport.Pause()
	transport.Pause()

	if engine.stops != 1 {
		t.Errorf("expected a single stop, got %d", engine.stops)
	}
}

func TestReplayFromFinishedRestartsAtZero(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(5))

	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	// Run the clock past the end and finish the track
	engine.now += 6.0
	transport.finish()

	if got := transport.Elapsed(); got != 5.0 {
		t.Errorf("expected position pinned at duration, got %v", got)
	}
	if transport.State() != StatePaused {
		t.Errorf("expected paused at end, got %v", transport.State())
	}

	// Playing a finished track restarts from the beginning
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if engine.starts[1] != 0 {
		t.Errorf("expected replay at offset 0, got %v", engine.starts[1])
	}
}

func TestResumeErrorLeavesStateUnchanged(t *testing.T) {
	engine := &fakeEngine{resumeErr: errors.New("device blocked")}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(5))

	if err := transport.Play(context.Background()); err == nil {
		t.Fatal("expected resume error to propagate")
	}
	if transport.State() != StateIdle {
		t.Errorf("state should be unchanged, got %v", transport.State())
	}
	if len(engine.starts) != 0 {
		t.Error("playback must not start when the device cannot resume")
	}
}

func TestStartErrorLeavesStateUnchanged(t *testing.T) {
	engine := &fakeEngine{startErr: errors.New("graph construction failed")}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(5))

	if err := transport.Play(context.Background()); err == nil {
		t.Fatal("expected start error to propagate")
	}
	if transport.State() != StateIdle {
		t.Errorf("state should be unchanged, got %v", transport.State())
	}
}

func TestSetBufferStopsActiveSession(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))

	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	engine.now += 4.0

	transport.SetBuffer(testBuffer(7))

	if engine.stops != 1 {
		t.Errorf("expected buffer swap to stop the session, got %d stops", engine.stops)
	}
	if transport.Elapsed() != 0 {
		t.Errorf("expected position reset on swap, got %v", transport.Elapsed())
	}
	if transport.Duration() != 7.0 {
		t.Errorf("expected new buffer duration 7.0, got %v", transport.Duration())
	}
}

func TestPlayWhilePlayingIsNoOp(t *testing.T) {
	engine := &fakeEngine{}
	transport := NewTransport(engine)
	transport.SetBuffer(testBuffer(10))

	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if err := transport.Play(context.Background()); err != nil {
		t.Fatalf("second play failed: %v", err)
	}

	if len(engine.starts) != 1 {
		t.Errorf("expected a single start, got %d", len(engine.starts))
	}
}
