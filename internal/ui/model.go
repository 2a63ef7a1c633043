// ABOUTME: Bubbletea model for the companion player TUI
// ABOUTME: Renders the transcript with active-segment highlighting
package ui

import (
	"fmt"
	"strings"

	"github.com/coursely/coursely-go/internal/script"
	tea "github.com/charmbracelet/bubbletea"
)

// transcriptWindow is how many dialogue lines are shown at once
const transcriptWindow = 9

// Model represents the TUI state
type Model struct {
	// Connection
	connected   bool
	serviceName string

	// Lesson
	topic     string
	unitTitle string
	loading   bool

	// Playback
	playing     bool
	currentTime float64
	duration    float64

	// Transcript
	segments    []string
	activeIndex int

	// Dimensions
	width  int
	height int

	ctrl *Control
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.renderHeader()
	s += m.renderTranscript()
	s += m.renderTransport()
	s += m.renderHelp()

	return s
}

// renderHeader renders connection and lesson info
func (m Model) renderHeader() string {
	connStatus := "Disconnected"
	if m.connected {
		connStatus = fmt.Sprintf("Connected to %s", m.serviceName)
	}

	unit := "(no unit)"
	if m.unitTitle != "" {
		unit = truncate(m.unitTitle, 42)
	}

	return fmt.Sprintf(`┌─ Coursely Companion ─────────────────────────────────┐
│ Status: %-45s │
│ Topic:  %-45s │
│ Unit:   %-45s │
├──────────────────────────────────────────────────────┤
`, connStatus, truncate(m.topic, 45), unit)
}

// renderTranscript renders the dialogue with the active turn marked
func (m Model) renderTranscript() string {
	if m.loading {
		return "│ Generating lesson audio...                           │\n"
	}
	if len(m.segments) == 0 {
		return "│ No podcast for this unit yet. Press space to create. │\n"
	}

	start, end := windowBounds(m.activeIndex, len(m.segments), transcriptWindow)

	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "  "
		if i == m.activeIndex {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%s: %s", marker, script.SpeakerFor(i).Label(), m.segments[i])
		b.WriteString(fmt.Sprintf("│ %-52s │\n", truncate(line, 52)))
	}

	return b.String()
}

// renderTransport renders the playback position row
func (m Model) renderTransport() string {
	icon := "⏸"
	if m.playing {
		icon = "▶"
	}

	bar := renderBar(m.currentTime, m.duration, 24)

	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %s %s / %s [%s]%-12s │
`, icon, FormatTime(m.currentTime), FormatTime(m.duration), bar, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ space:Play/Pause  g:Regenerate  q:Quit               │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.ctrl != nil {
			select {
			case m.ctrl.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case " ":
		if m.ctrl != nil {
			select {
			case m.ctrl.Toggle <- struct{}{}:
			default:
			}
		}
	case "g":
		if m.ctrl != nil {
			select {
			case m.ctrl.Regenerate <- struct{}{}:
			default:
			}
		}
	}

	return m, nil
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connected != nil {
		m.connected = *msg.Connected
	}
	if msg.ServiceName != "" {
		m.serviceName = msg.ServiceName
	}
	if msg.Topic != "" {
		m.topic = msg.Topic
	}
	if msg.UnitTitle != "" {
		m.unitTitle = msg.UnitTitle
	}
	if msg.Loading != nil {
		m.loading = *msg.Loading
	}
	if msg.Playing != nil {
		m.playing = *msg.Playing
	}
	if msg.CurrentTime != nil {
		m.currentTime = *msg.CurrentTime
	}
	if msg.Duration != nil {
		m.duration = *msg.Duration
	}
	if msg.Segments != nil {
		m.segments = msg.Segments
		m.activeIndex = 0
	}
	if msg.ActiveIndex != nil {
		m.activeIndex = *msg.ActiveIndex
	}
}

// StatusMsg updates TUI state. Pointer fields distinguish "unset" from
// zero values.
type StatusMsg struct {
	Connected   *bool
	ServiceName string
	Topic       string
	UnitTitle   string
	Loading     *bool
	Playing     *bool
	CurrentTime *float64
	Duration    *float64
	Segments    []string
	ActiveIndex *int
}

// FormatTime renders seconds as M:SS for the transport row.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// windowBounds centers a window of size n on the active line
func windowBounds(active, total, n int) (int, int) {
	if total <= n {
		return 0, total
	}
	start := active - n/2
	if start < 0 {
		start = 0
	}
	if start+n > total {
		start = total - n
	}
	return start, start + n
}

// renderBar renders a progress bar of the given width
func renderBar(value, max float64, width int) string {
	filled := 0
	if max > 0 {
		filled = int(value / max * float64(width))
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("=", filled) + strings.Repeat("-", width-filled)
}

// truncate shortens a string to fit a column
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
