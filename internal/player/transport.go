// ABOUTME: Playback transport state machine
// ABOUTME: Tracks play/pause/resume with anchor-based elapsed time
package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/coursely/coursely-go/internal/audio"
)

// State is the transport's playback state. A finished track is Paused with
// the position pinned at the buffer duration; playing again restarts at 0.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Transport drives playback of one decoded buffer through an engine. The
// buffer is replaced wholesale on a new payload, never mutated. All state
// transitions are synchronous; callers never observe an intermediate state.
type Transport struct {
	mu       sync.Mutex
	engine   Engine
	buffer   *audio.Buffer
	session  Session
	anchor   float64 // audio-clock time at which elapsed would be 0
	position float64 // last recorded elapsed while not playing
	state    State
}

// NewTransport creates a transport bound to an engine.
func NewTransport(engine Engine) *Transport {
	return &Transport{engine: engine}
}

// SetBuffer installs a decoded buffer, stopping any active session and
// resetting the position. A nil buffer clears the transport.
func (t *Transport) SetBuffer(buf *audio.Buffer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopSession()
	t.buffer = buf
	t.position = 0
	t.state = StateIdle
}

// HasBuffer reports whether a decoded buffer is installed.
func (t *Transport) HasBuffer() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffer != nil
}

// Play starts or resumes playback from the current position. Playing a
// finished track restarts from the beginning. With no buffer installed the
// call is a silent no-op. A device resume failure leaves the state
// unchanged and is returned to the caller.
func (t *Transport) Play(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.buffer == nil || t.state == StatePlaying {
		return nil
	}

	offset := t.position
	if offset >= t.buffer.Duration() {
		offset = 0
	}

	if err := t.engine.Resume(ctx); err != nil {
		return fmt.Errorf("resume output: %w", err)
	}

	session, err := t.engine.Start(t.buffer, offset)
	if err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	t.session = session
	t.anchor = t.engine.Now() - offset
	t.position = offset
	t.state = StatePlaying
	return nil
}

// Pause synchronously stops output and records the position. Idempotent;
// no effect when already paused or idle.
func (t *Transport) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePlaying {
		return
	}

	t.position = t.engine.Now() - t.anchor
	t.stopSession()
	t.state = StatePaused
}

// Elapsed returns seconds played into the buffer: live while playing, the
// last recorded value otherwise.
func (t *Transport) Elapsed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StatePlaying {
		return t.engine.Now() - t.anchor
	}
	return t.position
}

// Duration returns the installed buffer's duration, or 0 without one.
func (t *Transport) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffer.Duration()
}

// State returns the current playback state.
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Playing reports whether audio is actively playing.
func (t *Transport) Playing() bool {
	return t.State() == StatePlaying
}

// finish stops playback with the position pinned at the buffer duration.
// Called by the progress clock when the audio clock runs past the end;
// there is no end-of-stream callback from the output device.
func (t *Transport) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePlaying {
		return
	}

	t.stopSession()
	t.position = t.buffer.Duration()
	t.state = StatePaused
}

// stopSession halts and discards the active session. Caller holds the lock.
func (t *Transport) stopSession() {
	if t.session != nil {
		t.session.Stop()
		t.session = nil
	}
}
