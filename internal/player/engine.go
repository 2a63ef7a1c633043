// ABOUTME: Playback engine interface definitions
// ABOUTME: Abstracts the output device and its audio clock for the transport
package player

import (
	"context"

	"github.com/coursely/coursely-go/internal/audio"
)

// Engine owns the output device for one decoded buffer's lifetime. It is
// created when a payload is decoded and must be closed on buffer swap and
// on host teardown, including error paths.
type Engine interface {
	// Now returns the engine's monotonic audio clock in seconds. It is
	// independent of wall-clock adjustments and never decreases.
	Now() float64

	// Resume wakes a suspended output device. It must complete before
	// playback starts and is the only suspension point in the subsystem.
	Resume(ctx context.Context) error

	// Start begins output of buf at the given offset in seconds and
	// returns the active session. The offset is assumed pre-clamped.
	Start(buf *audio.Buffer, offset float64) (Session, error)

	// Close releases the output device.
	Close() error
}

// Session is one active playback run. It exists only while audio is
// audibly playing and is discarded on pause or end-of-track.
type Session interface {
	// Stop synchronously halts output. Safe to call once.
	Stop()
}
