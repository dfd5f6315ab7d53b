package engine

// MirrorMode paints every turn onto its own ring and the horizontally
// mirrored control's ring, so the grid stays left/right symmetric.
type MirrorMode struct {
	Base
	leds *LEDs
}

func NewMirrorMode(d Deps) *MirrorMode {
	return &MirrorMode{leds: d.LEDs}
}

func (m *MirrorMode) Name() string { return "mirror" }

func (m *MirrorMode) Activate(trigger int) {
	m.leds.Clear()
}

func (m *MirrorMode) HandleTurn(control int, value uint8) bool {
	m.leds.Set(control, int(value))
	m.leds.Set(mirrorOf(control), int(value))
	return true
}

func (m *MirrorMode) HandlePress(control int) bool {
	m.leds.Set(control, 127)
	m.leds.Set(mirrorOf(control), 127)
	return true
}

func (m *MirrorMode) HandleRelease(control int) bool {
	m.leds.Set(control, 0)
	m.leds.Set(mirrorOf(control), 0)
	return true
}

func (m *MirrorMode) Deactivate() {
	m.leds.Clear()
}

func mirrorOf(c int) int {
	row, col := gridPos(c)
	return gridIndex(row, GridWidth-1-col)
}
