package engine

// SelectMode maps each control to a registered mode; pressing a control
// switches to it. The long-press watchdog lands here from any mode, making
// it the one guaranteed exit.
type SelectMode struct {
	Base
	engine  *Engine
	entries [NumControls]string
}

func NewSelectMode(e *Engine) *SelectMode {
	return &SelectMode{engine: e}
}

func (m *SelectMode) Name() string { return SelectModeName }

// Activate lays the registry out over the grid in registration order,
// skipping itself, and lights the assigned controls.
func (m *SelectMode) Activate(trigger int) {
	m.entries = [NumControls]string{}
	slot := 0
	for _, name := range m.engine.ModeNames() {
		if name == SelectModeName {
			continue
		}
		if slot >= NumControls {
			break
		}
		m.entries[slot] = name
		slot++
	}

	leds := m.engine.LEDs()
	for c := 0; c < NumControls; c++ {
		if m.entries[c] != "" {
			leds.Set(c, 70)
		} else {
			leds.Set(c, 0)
		}
	}
}

func (m *SelectMode) HandlePress(control int) bool {
	name := m.entries[control]
	if name == "" {
		return false
	}
	m.engine.LEDs().Set(control, 127)
	m.engine.requestSwitch(name, control)
	return true
}

func (m *SelectMode) Deactivate() {
	m.engine.LEDs().Clear()
}
