package midi

import "fmt"

// NumControls is the number of knob+button pairs on the device (4x4 grid).
const NumControls = 16

// statusCC is the control-change status high nibble.
const statusCC uint8 = 0xB0

// Button channel values for press and release.
const (
	PressValue   uint8 = 127
	ReleaseValue uint8 = 0
)

// EventKind classifies a decoded control event.
type EventKind int

const (
	EventTurn EventKind = iota
	EventPress
	EventRelease
)

func (k EventKind) String() string {
	switch k {
	case EventTurn:
		return "turn"
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	}
	return "unknown"
}

// Event is one decoded hardware event: a knob turn, a button press or a
// button release, addressed to a single control.
type Event struct {
	Kind    EventKind
	Control int
	Value   uint8 // turn position 0-127; unused for press/release
}

func (e Event) String() string {
	if e.Kind == EventTurn {
		return fmt.Sprintf("turn(%d=%d)", e.Control, e.Value)
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.Control)
}

// Channels describes which CC channels the device speaks on. The Twister
// sends encoder turns and switch presses on two separate channels and
// listens for indicator ring feedback on a third.
type Channels struct {
	Knob   uint8 `json:"knob"`
	Button uint8 `json:"button"`
	LED    uint8 `json:"led"`
}

// DefaultChannels matches the Twister factory mapping.
func DefaultChannels() Channels {
	return Channels{Knob: 0, Button: 1, LED: 0}
}

// Decode interprets a raw 3-byte control-change tuple. The low nibble of
// status selects the knob vs button channel; anything that is not a CC on a
// known channel, or addresses a control outside the grid, is ignored.
func (ch Channels) Decode(status, control, value uint8) (Event, bool) {
	if status&0xF0 != statusCC {
		return Event{}, false
	}
	if int(control) >= NumControls {
		return Event{}, false
	}
	switch status & 0x0F {
	case ch.Knob:
		return Event{Kind: EventTurn, Control: int(control), Value: value & 0x7F}, true
	case ch.Button:
		switch value {
		case PressValue:
			return Event{Kind: EventPress, Control: int(control)}, true
		case ReleaseValue:
			return Event{Kind: EventRelease, Control: int(control)}, true
		}
	}
	return Event{}, false
}
