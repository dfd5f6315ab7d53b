package tui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/redaphid/fidget-toy-midi-twister/debug"
	"github.com/redaphid/fidget-toy-midi-twister/engine"
	"github.com/redaphid/fidget-toy-midi-twister/midi"
	"github.com/redaphid/fidget-toy-midi-twister/widgets"
)

// Simulator is the virtual device: it collects LED writes from the engine
// (it is an engine.LEDSink) and emits control events driven by the
// keyboard, so the whole engine runs without hardware attached.
type Simulator struct {
	mu      sync.Mutex
	leds    [midi.NumControls]uint8
	events  chan midi.Event
	updates chan struct{}
}

func NewSimulator() *Simulator {
	return &Simulator{
		events:  make(chan midi.Event, 64),
		updates: make(chan struct{}, 1),
	}
}

// SetLED implements engine.LEDSink.
func (s *Simulator) SetLED(control int, value uint8) error {
	if control < 0 || control >= midi.NumControls {
		return nil
	}
	s.mu.Lock()
	s.leds[control] = value
	s.mu.Unlock()
	select {
	case s.updates <- struct{}{}:
	default:
	}
	return nil
}

// Events returns the simulated hardware event stream.
func (s *Simulator) Events() <-chan midi.Event {
	return s.events
}

// Snapshot copies the current LED surface.
func (s *Simulator) Snapshot() [midi.NumControls]uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds
}

func (s *Simulator) send(ev midi.Event) {
	select {
	case s.events <- ev:
	default:
		debug.Log("tui", "event buffer full, dropped %s", ev)
	}
}

// Model is the bubbletea view over the simulator: a 4x4 knob grid, a cursor
// and keys for turn/press/release/hold.
type Model struct {
	Engine   *engine.Engine
	Sim      *Simulator
	cursor   int
	knobs    [midi.NumControls]uint8
	holding  [midi.NumControls]bool
	hardware string
	quitting bool
}

type UpdateMsg struct{}

// HardwareMsg reports a hardware connect/disconnect for the status line.
type HardwareMsg string

func NewModel(eng *engine.Engine, sim *Simulator) Model {
	return Model{Engine: eng, Sim: sim}
}

func listenForUpdates(sim *Simulator) tea.Cmd {
	return func() tea.Msg {
		<-sim.updates
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.Sim)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "left", "h":
			m.cursor = (m.cursor + midi.NumControls - 1) % midi.NumControls
		case "right", "l":
			m.cursor = (m.cursor + 1) % midi.NumControls
		case "up", "k":
			m.cursor = (m.cursor + midi.NumControls - 4) % midi.NumControls
		case "down", "j":
			m.cursor = (m.cursor + 4) % midi.NumControls

		case "+", "=":
			m.turn(8)
		case "-", "_":
			m.turn(-8)
		case ">":
			m.turn(1)
		case "<":
			m.turn(-1)

		case " ":
			// Tap: press then release.
			m.Sim.send(midi.Event{Kind: midi.EventPress, Control: m.cursor})
			m.Sim.send(midi.Event{Kind: midi.EventRelease, Control: m.cursor})

		case ".":
			// Hold toggle, for exercising the long-press watchdog.
			if m.holding[m.cursor] {
				m.holding[m.cursor] = false
				m.Sim.send(midi.Event{Kind: midi.EventRelease, Control: m.cursor})
			} else {
				m.holding[m.cursor] = true
				m.Sim.send(midi.Event{Kind: midi.EventPress, Control: m.cursor})
			}
		}

	case UpdateMsg:
		return m, listenForUpdates(m.Sim)

	case HardwareMsg:
		m.hardware = string(msg)
	}

	return m, nil
}

func (m *Model) turn(delta int) {
	v := int(m.knobs[m.cursor]) + delta
	if v < 0 {
		v = 0
	}
	if v > 127 {
		v = 127
	}
	m.knobs[m.cursor] = uint8(v)
	m.Sim.send(midi.Event{Kind: midi.EventTurn, Control: m.cursor, Value: uint8(v)})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	hw := ""
	if m.hardware != "" {
		hw = "  hw:" + m.hardware
	}
	hold := ""
	if m.holding[m.cursor] {
		hold = "  HOLDING"
	}
	header := headerStyle.Render(fmt.Sprintf("fidget-twister  mode:%s  knob:%02d=%d%s%s",
		m.Engine.ActiveName(), m.cursor, m.knobs[m.cursor], hw, hold))

	grid := widgets.RenderGrid(m.Sim.Snapshot(), m.cursor)

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeyBinding{
		{Key: "hjkl/arrows", Desc: "move cursor"},
		{Key: "+/- < >", Desc: "turn knob"},
		{Key: "space", Desc: "tap button"},
		{Key: ".", Desc: "hold/release button (hold 1.5s for mode select)"},
		{Key: "q", Desc: "quit"},
	}))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(help)
	return out.String()
}
