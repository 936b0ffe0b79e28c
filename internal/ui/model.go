// ABOUTME: Bubbletea model for the channel monitor
// ABOUTME: Defines monitor state, key handling and rendering of the channel pool
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

const (
	maxVolume  = 15
	maxMaster  = 100
	masterStep = 10
	panStep    = 16
	maxBoard   = 9
	panDefault = 128
)

// Model represents the TUI state
type Model struct {
	// Output
	sampleRate   int
	bufferFrames int
	noSound      bool
	master       int
	muted        bool

	// Pool
	channels int
	active   int
	slots    []mixer.ChannelInfo

	// Cache
	cacheEntries int
	cacheBytes   int64

	// Board
	sounds     []string
	volume     int
	separation int
	lastEvent  string

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	controls *Controls
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Stats   *mixer.Stats
	Slots   []mixer.ChannelInfo
	Sounds  []string
	NoSound *bool
	Volume  int
	Master  *int
	Muted   *bool
	Event   string
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

	s := ""
	s += m.renderHeader()
	s += m.renderBoard()
	s += m.renderChannels()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// latency returns the duration of one output buffer
func (m Model) latency() time.Duration {
	if m.sampleRate == 0 {
		return 0
	}
	return time.Duration(m.bufferFrames) * time.Second / time.Duration(m.sampleRate)
}

// renderHeader renders output and cache status
func (m Model) renderHeader() string {
	status := fmt.Sprintf("%dHz, %d frames (%s)", m.sampleRate, m.bufferFrames,
		durafmt.Parse(m.latency()).LimitFirstN(2))
	if m.noSound {
		status = "No sound (output unavailable)"
	}

	cache := fmt.Sprintf("%d sounds (%s)", m.cacheEntries, humanize.Bytes(uint64(m.cacheBytes)))

	master := fmt.Sprintf("[%s] %3d%%", renderBar(m.master, maxMaster, 10), m.master)
	if m.muted {
		master += " muted"
	}

	return fmt.Sprintf(`┌─ SFX Mixer ──────────────────────────────────────────┐
│ Output: %-44s │
│ Master: %-44s │
│ Cache:  %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(status, 44), master, truncate(cache, 44))
}

// renderBoard renders the sound board and board controls
func (m Model) renderBoard() string {
	s := ""
	if len(m.sounds) == 0 {
		s += "│ No sounds loaded                                     │\n"
	}
	for i, name := range m.sounds {
		if i >= maxBoard {
			break
		}
		s += fmt.Sprintf("│ %d: %-49s │\n", i+1, truncate(name, 49))
	}

	s += fmt.Sprintf("│ Volume: [%s] %2d/%d%-21s │\n", renderBar(m.volume, maxVolume, 10), m.volume, maxVolume, "")
	s += fmt.Sprintf("│ Pan:    %-44s │\n", panName(m.separation))
	if m.lastEvent != "" {
		s += fmt.Sprintf("│ Last:   %-44s │\n", truncate(m.lastEvent, 44))
	}
	return s
}

// renderChannels renders one line per active channel
func (m Model) renderChannels() string {
	s := fmt.Sprintf("├─ Channels %2d/%-2d ─────────────────────────────────────┤\n", m.active, m.channels)
	shown := 0
	for _, info := range m.slots {
		if !info.Active {
			continue
		}
		loop := ""
		if info.Loop {
			loop = "loop"
		}
		name := info.SoundName
		if name == "" {
			name = info.SampleID
		}
		s += fmt.Sprintf("│ %2d %-10s L[%s] R[%s] p%-3d %-4s │\n",
			info.Slot, truncate(name, 10),
			renderBar(info.Left, mixer.MaxGain, 8), renderBar(info.Right, mixer.MaxGain, 8),
			info.Priority, loop)
		shown++
	}
	if shown == 0 {
		s += "│ (idle)                                               │\n"
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ 1-9:Play  ←/→:Pan  ↑/↓:Volume  s:Stop  d:Debug  q:Quit│
│ +/-:Master  m:Mute                                    │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders per-channel cursor details
func (m Model) renderDebug() string {
	s := "│ DEBUG:                                               │\n"
	for _, info := range m.slots {
		if !info.Active {
			continue
		}
		s += fmt.Sprintf("│   %2d step=%-6d pos=%d/%-8d t=%-10d │\n",
			info.Slot, info.Step, info.Position, info.Length, info.StartTime)
	}
	return s
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "up":
		if m.volume < maxVolume {
			m.volume++
			m.sendVolume()
		}
	case "down":
		if m.volume > 0 {
			m.volume--
			m.sendVolume()
		}
	case "+", "=":
		if m.master < maxMaster {
			m.master = min(m.master+masterStep, maxMaster)
			m.sendMaster()
		}
	case "-":
		if m.master > 0 {
			m.master = max(m.master-masterStep, 0)
			m.sendMaster()
		}
	case "m":
		m.muted = !m.muted
		if m.controls != nil {
			select {
			case m.controls.Mute <- m.muted:
			default:
			}
		}
		if m.muted {
			m.lastEvent = "muted"
		} else {
			m.lastEvent = "unmuted"
		}
	case "left":
		m.separation -= panStep
		if m.separation < 0 {
			m.separation = 0
		}
	case "right":
		m.separation += panStep
		if m.separation > 255 {
			m.separation = 255
		}
	case "s":
		if m.controls != nil {
			select {
			case m.controls.StopAll <- struct{}{}:
			default:
			}
		}
		m.lastEvent = "stopped all channels"
	case "d":
		m.showDebug = !m.showDebug
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			index := int(key[0] - '1')
			if index < len(m.sounds) {
				m.trigger(index)
			}
		}
	}

	return m, nil
}

func (m *Model) sendVolume() {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Volume <- m.volume:
	default:
	}
}

func (m *Model) sendMaster() {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Master <- m.master:
	default:
	}
}

func (m *Model) trigger(index int) {
	m.lastEvent = "play " + m.sounds[index]
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Trigger <- TriggerMsg{Index: index, Separation: m.separation}:
	default:
		m.lastEvent = "dropped " + m.sounds[index]
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Stats != nil {
		m.sampleRate = msg.Stats.SampleRate
		m.bufferFrames = msg.Stats.BufferFrames
		m.channels = msg.Stats.Channels
		m.active = msg.Stats.Active
		m.cacheEntries = msg.Stats.CacheEntries
		m.cacheBytes = msg.Stats.CacheBytes
	}
	if msg.Slots != nil {
		m.slots = msg.Slots
	}
	if msg.Sounds != nil {
		m.sounds = msg.Sounds
	}
	if msg.NoSound != nil {
		m.noSound = *msg.NoSound
	}
	if msg.Volume != 0 {
		m.volume = msg.Volume
	}
	if msg.Master != nil {
		m.master = *msg.Master
	}
	if msg.Muted != nil {
		m.muted = *msg.Muted
	}
	if msg.Event != "" {
		m.lastEvent = msg.Event
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func panName(separation int) string {
	switch {
	case separation == panDefault:
		return "centre"
	case separation < panDefault:
		return fmt.Sprintf("left %d", panDefault-separation)
	default:
		return fmt.Sprintf("right %d", separation-panDefault)
	}
}
