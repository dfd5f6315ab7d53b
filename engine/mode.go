package engine

import (
	"math/rand"

	"github.com/redaphid/fidget-toy-midi-twister/debug"
	"github.com/redaphid/fidget-toy-midi-twister/midi"
)

// NumControls is the size of the control surface a mode owns while active.
const NumControls = midi.NumControls

// GridWidth is the width of the notional 4x4 layout of the controls.
const GridWidth = 4

// NoTrigger is passed to Activate when no specific control selected the mode.
const NoTrigger = -1

// Mode is the capability contract every mode variant implements. Exactly one
// mode is active at a time; while active it owns the whole LED surface.
//
// Activate must fully reset private state (an instance is constructed once
// and reactivated many times) and repaint or clear every LED it depends on.
// Deactivate must cancel every timer the instance owns and is safe to call
// even if Activate never ran. Handlers report whether they consumed the
// event.
type Mode interface {
	Name() string
	Activate(trigger int)
	HandleTurn(control int, value uint8) bool
	HandlePress(control int) bool
	HandleRelease(control int) bool
	Deactivate()
}

// Base provides no-op defaults so a mode only implements what it reacts to.
type Base struct{}

func (Base) Activate(int)               {}
func (Base) HandleTurn(int, uint8) bool { return false }
func (Base) HandlePress(int) bool       { return false }
func (Base) HandleRelease(int) bool     { return false }
func (Base) Deactivate()                {}

// Deps bundles what every mode needs: the LED surface, the shared cooperative
// scheduler and a random source (injectable for deterministic tests).
type Deps struct {
	LEDs  *LEDs
	Sched *Scheduler
	Rand  *rand.Rand
}

// LEDSink receives brightness writes for a control's indicator ring.
// The hardware controller and the TUI simulator both implement it.
type LEDSink interface {
	SetLED(control int, value uint8) error
}

// LEDs fans writes out to every attached sink, clamping brightness so that
// animation math overshoot never corrupts the hardware link.
type LEDs struct {
	sinks []LEDSink
}

func NewLEDs(sinks ...LEDSink) *LEDs {
	return &LEDs{sinks: sinks}
}

// Set writes one ring brightness. Out-of-range values clamp, unknown
// controls drop.
func (l *LEDs) Set(control, value int) {
	if control < 0 || control >= NumControls {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 127 {
		value = 127
	}
	for _, s := range l.sinks {
		if err := s.SetLED(control, uint8(value)); err != nil {
			debug.Log("led", "write control=%d: %v", control, err)
		}
	}
}

// Fill paints every ring with the same brightness.
func (l *LEDs) Fill(value int) {
	for c := 0; c < NumControls; c++ {
		l.Set(c, value)
	}
}

// Clear blanks the whole surface.
func (l *LEDs) Clear() {
	l.Fill(0)
}

func gridPos(c int) (row, col int) {
	return c / GridWidth, c % GridWidth
}

func gridIndex(row, col int) int {
	return row*GridWidth + col
}
