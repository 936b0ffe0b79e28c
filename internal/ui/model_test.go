// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling, control messages and rendering
package ui

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, s string) Model {
	next, _ := m.handleKey(key(s))
	return next.(Model)
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil) // Controls are optional for testing

	if model.volume != 8 {
		t.Errorf("expected default volume 8, got %d", model.volume)
	}
	if model.separation != 128 {
		t.Errorf("expected centred pan, got %d", model.separation)
	}
	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}
}

func TestStatusMsgStats(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{Stats: &mixer.Stats{
		SampleRate:   44100,
		BufferFrames: 1024,
		Channels:     32,
		Active:       3,
		CacheEntries: 4,
		CacheBytes:   2048,
	}})

	if model.sampleRate != 44100 || model.bufferFrames != 1024 {
		t.Errorf("unexpected output state %d/%d", model.sampleRate, model.bufferFrames)
	}
	if model.channels != 32 || model.active != 3 {
		t.Errorf("unexpected pool state %d/%d", model.active, model.channels)
	}
	if model.cacheEntries != 4 || model.cacheBytes != 2048 {
		t.Errorf("unexpected cache state %d/%d", model.cacheEntries, model.cacheBytes)
	}
}

func TestStatusMsgZeroValues(t *testing.T) {
	model := NewModel(nil)
	model.applyStatus(StatusMsg{Sounds: []string{"dspistol"}, Volume: 12, Event: "hello"})

	model.applyStatus(StatusMsg{})

	if len(model.sounds) != 1 || model.volume != 12 || model.lastEvent != "hello" {
		t.Error("expected empty status to leave state alone")
	}
}

func TestStatusMsgNoSound(t *testing.T) {
	model := NewModel(nil)
	noSound := true
	model.applyStatus(StatusMsg{NoSound: &noSound})

	if !model.noSound {
		t.Error("expected no-sound flag set")
	}

	model.width = 80
	if !strings.Contains(model.View(), "No sound") {
		t.Error("expected no-sound banner in view")
	}
}

func TestVolumeKeys(t *testing.T) {
	ctrl := NewControls()
	model := NewModel(ctrl)

	model = press(model, "up")
	if model.volume != 9 {
		t.Errorf("expected volume 9, got %d", model.volume)
	}
	if v := <-ctrl.Volume; v != 9 {
		t.Errorf("expected volume request 9, got %d", v)
	}

	model.volume = maxVolume
	model = press(model, "up")
	if model.volume != maxVolume {
		t.Errorf("expected volume capped at %d, got %d", maxVolume, model.volume)
	}

	model.volume = 0
	model = press(model, "down")
	if model.volume != 0 {
		t.Errorf("expected volume floored at 0, got %d", model.volume)
	}
	if len(ctrl.Volume) != 0 {
		t.Error("expected no volume request at the limits")
	}
}

func TestMasterVolumeKeys(t *testing.T) {
	ctrl := NewControls()
	model := NewModel(ctrl)

	model = press(model, "+")
	if len(ctrl.Master) != 0 {
		t.Error("expected no master request at full volume")
	}

	model = press(model, "-")
	if model.master != 90 {
		t.Errorf("expected master 90, got %d", model.master)
	}
	if v := <-ctrl.Master; v != 90 {
		t.Errorf("expected master request 90, got %d", v)
	}

	model = press(model, "=")
	if v := <-ctrl.Master; v != 100 {
		t.Errorf("expected master request 100, got %d", v)
	}

	model.master = 5
	model = press(model, "-")
	if model.master != 0 {
		t.Errorf("expected master floored at 0, got %d", model.master)
	}
}

func TestMuteKey(t *testing.T) {
	ctrl := NewControls()
	model := NewModel(ctrl)

	model = press(model, "m")
	if !model.muted {
		t.Error("expected muted")
	}
	if muted := <-ctrl.Mute; !muted {
		t.Error("expected mute request")
	}

	model.width = 80
	if !strings.Contains(model.View(), "muted") {
		t.Error("expected mute shown in view")
	}

	model = press(model, "m")
	if model.muted {
		t.Error("expected unmuted")
	}
	if muted := <-ctrl.Mute; muted {
		t.Error("expected unmute request")
	}
}

func TestStatusMsgMaster(t *testing.T) {
	model := NewModel(nil)
	master, muted := 40, true
	model.applyStatus(StatusMsg{Master: &master, Muted: &muted})

	if model.master != 40 || !model.muted {
		t.Errorf("expected master 40 muted, got %d %v", model.master, model.muted)
	}
}

func TestPanKeys(t *testing.T) {
	model := NewModel(nil)

	model = press(model, "left")
	if model.separation != 128-panStep {
		t.Errorf("expected %d, got %d", 128-panStep, model.separation)
	}

	for i := 0; i < 20; i++ {
		model = press(model, "right")
	}
	if model.separation != 255 {
		t.Errorf("expected pan capped at 255, got %d", model.separation)
	}

	for i := 0; i < 20; i++ {
		model = press(model, "left")
	}
	if model.separation != 0 {
		t.Errorf("expected pan floored at 0, got %d", model.separation)
	}
}

func TestTriggerKeys(t *testing.T) {
	ctrl := NewControls()
	model := NewModel(ctrl)
	model.applyStatus(StatusMsg{Sounds: []string{"dspistol", "dsshotgn"}})

	model = press(model, "right")
	model = press(model, "2")

	select {
	case msg := <-ctrl.Trigger:
		if msg.Index != 1 || msg.Separation != 128+panStep {
			t.Errorf("unexpected trigger %+v", msg)
		}
	default:
		t.Fatal("expected trigger request")
	}
	if model.lastEvent != "play dsshotgn" {
		t.Errorf("unexpected event %q", model.lastEvent)
	}

	press(model, "5")
	if len(ctrl.Trigger) != 0 {
		t.Error("expected no trigger for an empty board slot")
	}
}

func TestStopAndQuitKeys(t *testing.T) {
	ctrl := NewControls()
	model := NewModel(ctrl)

	press(model, "s")
	if len(ctrl.StopAll) != 1 {
		t.Error("expected stop request")
	}

	_, cmd := model.handleKey(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
	if len(ctrl.Quit) != 1 {
		t.Error("expected quit request")
	}
}

func TestDebugToggle(t *testing.T) {
	model := NewModel(nil)
	model = press(model, "d")
	if !model.showDebug {
		t.Error("expected debug on")
	}
	model = press(model, "d")
	if model.showDebug {
		t.Error("expected debug off")
	}
}

func TestViewRendersChannels(t *testing.T) {
	model := NewModel(nil)
	if model.View() != "Loading..." {
		t.Error("expected loading view before the first resize")
	}

	next, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	model = next.(Model)

	next, _ = model.Update(StatusMsg{
		Stats: &mixer.Stats{SampleRate: 11025, BufferFrames: 256, Channels: 8, Active: 1},
		Slots: []mixer.ChannelInfo{
			{Slot: 0, Active: true, SoundName: "dsstnmov", Left: 127, Right: 64, Priority: 70, Loop: true},
			{Slot: 1},
		},
	})
	model = next.(Model)
	model.showDebug = true

	view := model.View()
	for _, want := range []string{"SFX Mixer", "11025Hz", "dsstnmov", "loop", "Channels  1/8", "DEBUG"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(127, 127, 4); got != "████" {
		t.Errorf("expected full bar, got %q", got)
	}
	if got := renderBar(0, 127, 4); got != "░░░░" {
		t.Errorf("expected empty bar, got %q", got)
	}
	if got := renderBar(5, 0, 2); got != "░░" {
		t.Errorf("expected empty bar for zero max, got %q", got)
	}
}

func TestPanName(t *testing.T) {
	tests := []struct {
		separation int
		expected   string
	}{
		{128, "centre"},
		{96, "left 32"},
		{160, "right 32"},
	}

	for _, tt := range tests {
		if got := panName(tt.separation); got != tt.expected {
			t.Errorf("panName(%d) = %q, want %q", tt.separation, got, tt.expected)
		}
	}
}
