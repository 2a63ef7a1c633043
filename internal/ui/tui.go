// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the companion player
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control carries user intents from the TUI to the application.
type Control struct {
	Toggle     chan struct{}
	Regenerate chan struct{}
	Quit       chan struct{}
}

// NewControl creates the TUI control channels
func NewControl() *Control {
	return &Control{
		Toggle:     make(chan struct{}, 4),
		Regenerate: make(chan struct{}, 4),
		Quit:       make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{ctrl: ctrl}
}

// Run starts the TUI
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
