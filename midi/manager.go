package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when a controller connects or disconnects.
type DeviceEvent struct {
	Type       DeviceEventType
	Controller *TwisterController
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of Twister controllers.
type DeviceManager struct {
	controllers map[string]*TwisterController
	mu          sync.RWMutex
	events      chan DeviceEvent
	channels    Channels
	match       string // port name substring, "" means any twister-looking port
	pollRate    time.Duration
}

// NewDeviceManager creates a new device manager. match narrows detection to
// ports whose name contains the given substring.
func NewDeviceManager(channels Channels, match string) *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]*TwisterController),
		events:      make(chan DeviceEvent, 16),
		channels:    channels,
		match:       strings.ToLower(match),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// First returns any connected controller (or nil).
func (dm *DeviceManager) First() *TwisterController {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		return c
	}
	return nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		// MIDI backend is hung - skip this scan
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		if !dm.wanted(inPort.String()) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		// Find the matching output port
		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.EqualFold(op.String(), id) {
				outPort = outPorts[j]
				break
			}
		}

		tc, err := NewTwisterController(id, inPorts[i], outPort, dm.channels)
		if err != nil {
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = tc
		dm.mu.Unlock()

		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: tc, ID: id}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) wanted(portName string) bool {
	name := strings.ToLower(portName)
	if dm.match != "" {
		return strings.Contains(name, dm.match)
	}
	return IsTwisterPort(name)
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]*TwisterController)
}

// IsTwisterPort reports whether a port name looks like a Twister.
func IsTwisterPort(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "twister") || strings.Contains(name, "fighter")
}
