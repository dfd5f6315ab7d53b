package midi

import (
	"fmt"

	"github.com/redaphid/fidget-toy-midi-twister/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// TwisterController handles a Midi Fighter Twister style 4x4 CC grid.
// Decoded control events are pushed into a buffered channel; indicator ring
// updates go back out as CC on the LED channel.
type TwisterController struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	channels Channels
	send     func(msg gomidi.Message) error
	stopFunc func()

	events chan Event
}

// NewTwisterController opens the given port pair and starts listening.
func NewTwisterController(id string, inPort drivers.In, outPort drivers.Out, channels Channels) (*TwisterController, error) {
	tc := &TwisterController{
		id:       id,
		inPort:   inPort,
		outPort:  outPort,
		channels: channels,
		events:   make(chan Event, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		tc.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var channel, cc, value uint8
			if !msg.GetControlChange(&channel, &cc, &value) {
				return
			}
			ev, ok := tc.channels.Decode(statusCC|channel, cc, value)
			if !ok {
				return
			}
			select {
			case tc.events <- ev:
			default:
				// Drop rather than block the driver callback.
				debug.Log("twister", "event buffer full, dropped %s", ev)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		tc.stopFunc = stop
	}

	return tc, nil
}

func (tc *TwisterController) ID() string {
	return tc.id
}

// Events returns the stream of decoded control events.
func (tc *TwisterController) Events() <-chan Event {
	return tc.events
}

// SetLED writes one indicator ring brightness. Values above 127 are clamped,
// out-of-grid controls dropped; the hardware link never sees a bad byte.
func (tc *TwisterController) SetLED(control int, value uint8) error {
	if tc.send == nil {
		return nil
	}
	if control < 0 || control >= NumControls {
		return nil
	}
	if value > 127 {
		value = 127
	}
	return tc.send(gomidi.ControlChange(tc.channels.LED, uint8(control), value))
}

// Close blanks the rings and stops the listener.
func (tc *TwisterController) Close() error {
	if tc.send != nil {
		for c := 0; c < NumControls; c++ {
			tc.send(gomidi.ControlChange(tc.channels.LED, uint8(c), 0))
		}
	}
	if tc.stopFunc != nil {
		tc.stopFunc()
	}
	close(tc.events)
	return nil
}
