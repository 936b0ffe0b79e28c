// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the channels that carry key presses to the app
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TriggerMsg asks the app to start a board sound
type TriggerMsg struct {
	Index      int
	Separation int
}

// Controls holds channels for control requests from the TUI
type Controls struct {
	Trigger chan TriggerMsg
	Volume  chan int
	Master  chan int
	Mute    chan bool
	StopAll chan struct{}
	Quit    chan struct{}
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Trigger: make(chan TriggerMsg, 16),
		Volume:  make(chan int, 10),
		Master:  make(chan int, 10),
		Mute:    make(chan bool, 1),
		StopAll: make(chan struct{}, 1),
		Quit:    make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Controls) Model {
	return Model{
		volume:     8,
		master:     maxMaster,
		separation: 128,
		controls:   ctrl,
	}
}

// Run creates the TUI program
func Run(ctrl *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
