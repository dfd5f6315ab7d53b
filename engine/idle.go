package engine

import "github.com/redaphid/fidget-toy-midi-twister/debug"

// IdleMode echoes each knob's turn value to its own ring and lets the user
// pair two knobs: press a knob to arm it as the link source, press a second
// to commit; from then on turning the source repaints the target's ring in
// the same dispatch. Pressing the armed source again cancels arming.
type IdleMode struct {
	Base
	leds   *LEDs
	links  map[int]int // source -> target
	source int         // armed source, -1 when idle
}

func NewIdleMode(d Deps) *IdleMode {
	return &IdleMode{leds: d.LEDs}
}

func (m *IdleMode) Name() string { return "idle" }

func (m *IdleMode) Activate(trigger int) {
	m.links = make(map[int]int)
	m.source = -1
	m.leds.Clear()
}

func (m *IdleMode) HandleTurn(control int, value uint8) bool {
	m.leds.Set(control, int(value))
	if target, ok := m.links[control]; ok {
		m.leds.Set(target, int(value))
	}
	return true
}

func (m *IdleMode) HandlePress(control int) bool {
	switch {
	case m.source < 0:
		m.source = control
		m.leds.Set(control, 127)
	case control == m.source:
		m.source = -1
		m.leds.Set(control, 0)
	default:
		m.links[m.source] = control
		debug.Log("idle", "linked %d -> %d", m.source, control)
		m.leds.Set(m.source, 0)
		m.source = -1
	}
	return true
}

func (m *IdleMode) Deactivate() {
	m.links = nil
	m.source = -1
	m.leds.Clear()
}
