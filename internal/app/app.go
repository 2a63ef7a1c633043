// ABOUTME: Main companion player orchestration
// ABOUTME: Coordinates the service link, playback session, and TUI
package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/coursely/coursely-go/internal/audio"
	"github.com/coursely/coursely-go/internal/client"
	"github.com/coursely/coursely-go/internal/lesson"
	"github.com/coursely/coursely-go/internal/player"
	"github.com/coursely/coursely-go/internal/protocol"
	"github.com/coursely/coursely-go/internal/script"
	"github.com/coursely/coursely-go/internal/ui"
)

// Config holds player configuration
type Config struct {
	ServerAddr string
	PlayerName string
	SampleRate int
}

// Link is the outbound half of the companion service connection.
type Link interface {
	RequestGeneration(protocol.GenerateRequest)
}

// App owns one playback session at a time: the decoded buffer, its engine,
// the transport, and the progress clock. A new payload replaces the whole
// session; nothing from the previous one survives the swap.
type App struct {
	config Config
	link   Link

	mu        sync.Mutex
	engine    player.Engine
	transport *player.Transport
	clock     *player.ProgressClock
	unit      *lesson.Unit
	segments  []string
	loading   bool

	// newEngine builds the playback engine for a buffer's sample rate
	newEngine func(sampleRate int) (player.Engine, error)

	// publish pushes state to the TUI
	publish func(ui.StatusMsg)

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the application around an established service link.
func New(config Config, link Link, publish func(ui.StatusMsg)) *App {
	ctx, cancel := context.WithCancel(context.Background())

	if config.SampleRate == 0 {
		config.SampleRate = audio.DefaultSampleRate
	}
	if publish == nil {
		publish = func(ui.StatusMsg) {}
	}

	return &App{
		config: config,
		link:   link,
		newEngine: func(sampleRate int) (player.Engine, error) {
			return player.NewOtoEngine(sampleRate)
		},
		publish: publish,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Serve consumes service messages and TUI intents until Stop. Call from a
// goroutine after connecting the client.
func (a *App) Serve(c *client.Client, ctrl *ui.Control) {
	for {
		select {
		case <-a.ctx.Done():
			return

		case content := <-c.Units:
			a.handleUnit(content)

		case payload := <-c.Audio:
			a.handlePayload(payload)

		case serr := <-c.Errors:
			a.handleServiceError(serr)

		case <-ctrl.Toggle:
			a.Toggle()

		case <-ctrl.Regenerate:
			a.Regenerate()
		}
	}
}

// handleUnit installs newly generated unit content
func (a *App) handleUnit(content protocol.UnitContent) {
	a.mu.Lock()
	unit := content.Unit
	a.unit = &unit
	a.segments = unit.Dialogue
	a.mu.Unlock()

	log.Printf("Received unit %q (%d dialogue turns)", unit.Title, len(unit.Dialogue))

	a.publish(ui.StatusMsg{
		UnitTitle: unit.Title,
		Segments:  unit.Dialogue,
	})
}

// handlePayload replaces the playback session with a freshly decoded one.
// The old progress clock and engine are fully torn down before the new
// buffer is installed so stale ticks cannot run against a freed session.
func (a *App) handlePayload(payload protocol.AudioPayload) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.teardownSessionLocked()

	buf, err := decodePayload(payload, a.config.SampleRate)
	if err != nil {
		log.Printf("Audio unavailable: %v", err)
		a.setLoadingLocked(false)
		return
	}

	engine, err := a.newEngine(buf.SampleRate)
	if err != nil {
		log.Printf("Audio unavailable: %v", err)
		a.setLoadingLocked(false)
		return
	}

	a.engine = engine
	a.transport = player.NewTransport(engine)
	a.transport.SetBuffer(buf)
	a.setLoadingLocked(false)

	log.Printf("Installed audio payload: codec=%s %.1fs", payload.Codec, buf.Duration())

	playing := false
	zero := 0.0
	duration := buf.Duration()
	idx := 0
	a.publish(ui.StatusMsg{
		Playing:     &playing,
		CurrentTime: &zero,
		Duration:    &duration,
		ActiveIndex: &idx,
	})
}

// handleServiceError clears the loading gate on a failed generation
func (a *App) handleServiceError(serr protocol.ServerError) {
	a.mu.Lock()
	a.setLoadingLocked(false)
	a.mu.Unlock()

	log.Printf("Generation failed: %s", serr.Message)
}

// Toggle is the host-facing transport entry point: with no audio it asks
// the service to generate some; with audio it plays or pauses. Interaction
// is disabled while generation is in flight.
func (a *App) Toggle() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loading {
		return
	}

	if a.transport == nil || !a.transport.HasBuffer() {
		a.requestGenerationLocked()
		return
	}

	if a.transport.Playing() {
		a.pauseLocked()
		return
	}

	if err := a.transport.Play(a.ctx); err != nil {
		log.Printf("Playback failed: %v", err)
		return
	}

	clock := player.NewProgressClock(a.transport, a.onProgress)
	a.clock = clock
	go clock.Run()

	playing := true
	a.publish(ui.StatusMsg{Playing: &playing})
}

// Regenerate discards the current audio and requests fresh materials
func (a *App) Regenerate() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loading {
		return
	}

	a.teardownSessionLocked()
	a.requestGenerationLocked()
}

// onProgress publishes position updates from the progress clock
func (a *App) onProgress(currentTime float64) {
	a.mu.Lock()
	transport := a.transport
	segments := a.segments
	a.mu.Unlock()

	if transport == nil {
		return
	}

	duration := transport.Duration()
	idx := script.ActiveIndex(currentTime, duration, segments)
	playing := transport.Playing()

	a.publish(ui.StatusMsg{
		Playing:     &playing,
		CurrentTime: &currentTime,
		Duration:    &duration,
		ActiveIndex: &idx,
	})
}

// Stop tears down the session and stops serving.
func (a *App) Stop() {
	a.cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownSessionLocked()
}

// pauseLocked pauses playback and cancels the progress clock
func (a *App) pauseLocked() {
	a.transport.Pause()
	if a.clock != nil {
		a.clock.Stop()
		a.clock = nil
	}

	playing := false
	currentTime := a.transport.Elapsed()
	a.publish(ui.StatusMsg{Playing: &playing, CurrentTime: &currentTime})
}

// requestGenerationLocked fires a generation request for the current unit
func (a *App) requestGenerationLocked() {
	req := protocol.GenerateRequest{}
	if a.unit != nil {
		req.UnitID = a.unit.ID
	} else {
		req.UnitID = lesson.NewID()
	}

	a.setLoadingLocked(true)
	a.link.RequestGeneration(req)
}

// teardownSessionLocked cancels the clock, stops the transport, and
// releases the engine. Safe when no session exists.
func (a *App) teardownSessionLocked() {
	if a.clock != nil {
		a.clock.Stop()
		a.clock = nil
	}
	if a.transport != nil {
		a.transport.Pause()
		a.transport = nil
	}
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			log.Printf("Error closing engine: %v", err)
		}
		a.engine = nil
	}
}

// setLoadingLocked updates the loading gate and mirrors it to the TUI
func (a *App) setLoadingLocked(loading bool) {
	a.loading = loading
	l := loading
	a.publish(ui.StatusMsg{Loading: &l})
}

// decodePayload picks the decoder for a payload's codec
func decodePayload(payload protocol.AudioPayload, defaultRate int) (*audio.Buffer, error) {
	rate := payload.SampleRate
	if rate == 0 {
		rate = defaultRate
	}

	switch payload.Codec {
	case audio.CodecPCM, "":
		return audio.DecodePCM(payload.Data, rate)
	case audio.CodecMP3:
		return audio.DecodeMP3(payload.Bytes)
	case audio.CodecOpus:
		return audio.DecodeOpus(payload.Bytes, rate)
	default:
		return nil, fmt.Errorf("unsupported codec %q: %w", payload.Codec, audio.ErrMalformed)
	}
}
