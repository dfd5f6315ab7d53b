package engine

import (
	"context"
	"sync"
	"time"

	"github.com/redaphid/fidget-toy-midi-twister/debug"
	"github.com/redaphid/fidget-toy-midi-twister/midi"
)

// DefaultHoldDuration is how long a button must stay pressed before the
// engine force-switches to mode select.
const DefaultHoldDuration = 1500 * time.Millisecond

// SelectModeName is the registry name the long-press watchdog switches to.
const SelectModeName = "select"

const watchdogOwner = "engine:watchdog"

// Engine owns the single active mode, routes every incoming hardware event
// to it, runs the activation/deactivation protocol and the long-press
// watchdog. A mode fault never escapes the dispatch boundary.
type Engine struct {
	mu    sync.Mutex
	leds  *LEDs
	sched *Scheduler

	modes  map[string]Mode
	order  []string
	active Mode

	pending *switchRequest

	watchdog TimerHandle
	held     int // control backing the watchdog, -1 when disarmed
	hold     time.Duration

	posted chan func()
}

type switchRequest struct {
	name    string
	trigger int
}

func New(sched *Scheduler, sinks ...LEDSink) *Engine {
	return &Engine{
		leds:   NewLEDs(sinks...),
		sched:  sched,
		modes:  make(map[string]Mode),
		held:   -1,
		hold:   DefaultHoldDuration,
		posted: make(chan func(), 16),
	}
}

// LEDs returns the clamped LED surface modes paint through.
func (e *Engine) LEDs() *LEDs { return e.leds }

// Scheduler returns the engine's cooperative timer domain.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// SetHoldDuration overrides the long-press threshold.
func (e *Engine) SetHoldDuration(d time.Duration) {
	if d > 0 {
		e.hold = d
	}
}

// Register adds a mode to the name registry. Modes are constructed once at
// startup; registration order drives the mode-select layout.
func (e *Engine) Register(m Mode) {
	if _, dup := e.modes[m.Name()]; dup {
		debug.Log("engine", "duplicate mode %q ignored", m.Name())
		return
	}
	e.modes[m.Name()] = m
	e.order = append(e.order, m.Name())
}

// ModeNames returns registered mode names in registration order.
func (e *Engine) ModeNames() []string {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// ActiveName returns the active mode's name, "" before first activation.
func (e *Engine) ActiveName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return ""
	}
	return e.active.Name()
}

// Dispatch delivers one decoded hardware event to the active mode. Events
// are processed to completion, including any switch a handler requested,
// before the caller sees the next one.
func (e *Engine) Dispatch(ev midi.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		debug.Log("engine", "no active mode, dropped %s", ev)
		return
	}
	if ev.Control < 0 || ev.Control >= NumControls {
		debug.Log("engine", "malformed event %s, dropped", ev)
		return
	}

	var handled bool
	switch ev.Kind {
	case midi.EventTurn:
		handled = e.safely("turn", func() bool { return e.active.HandleTurn(ev.Control, ev.Value&0x7F) })
	case midi.EventPress:
		handled = e.safely("press", func() bool { return e.active.HandlePress(ev.Control) })
		e.armWatchdog(ev.Control)
	case midi.EventRelease:
		handled = e.safely("release", func() bool { return e.active.HandleRelease(ev.Control) })
		if ev.Control == e.held {
			e.disarmWatchdog()
		}
	}
	if !handled {
		debug.LogEvery(50, "engine", "unhandled %s in %q", ev.Kind, e.active.Name())
	}

	// A handler may have asked for a mode switch; apply it only after the
	// whole event has been processed.
	if e.pending != nil {
		req := *e.pending
		e.pending = nil
		e.switchLocked(req.name, req.trigger)
	}
}

// safely runs one handler behind a recover so a mode fault is logged and
// treated as unhandled.
func (e *Engine) safely(kind string, fn func() bool) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log("engine", "%s handler fault in %q: %v", kind, e.active.Name(), r)
			handled = false
		}
	}()
	return fn()
}

// armWatchdog (re)starts the long-press timer for the control just pressed.
// Only one is outstanding: a new press replaces the previous one.
func (e *Engine) armWatchdog(control int) {
	e.watchdog.Stop()
	e.held = control
	e.watchdog = e.sched.After(watchdogOwner, e.hold, func() {
		e.watchdogFired(control)
	})
}

func (e *Engine) disarmWatchdog() {
	e.watchdog.Stop()
	e.held = -1
}

func (e *Engine) watchdogFired(control int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.held != control {
		return
	}
	e.held = -1
	debug.Log("engine", "long press on %d, forcing mode select", control)
	e.switchLocked(SelectModeName, control)
}

// requestSwitch queues a mode switch from inside a handler. Handler context
// only; the engine lock is already held there.
func (e *Engine) requestSwitch(name string, trigger int) {
	e.pending = &switchRequest{name: name, trigger: trigger}
}

// SwitchTo deactivates the current mode and activates the named one,
// passing the control that triggered the switch (NoTrigger if none). An
// unknown name is logged and leaves the current mode active. No event is
// delivered between the two lifecycle calls.
func (e *Engine) SwitchTo(name string, trigger int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.switchLocked(name, trigger)
}

func (e *Engine) switchLocked(name string, trigger int) bool {
	m, ok := e.modes[name]
	if !ok {
		debug.Log("engine", "switch to unknown mode %q", name)
		return false
	}

	if e.active != nil {
		old := e.active
		func() {
			defer func() {
				if r := recover(); r != nil {
					debug.Log("engine", "deactivate fault in %q: %v", old.Name(), r)
				}
			}()
			old.Deactivate()
		}()
		// A deactivated mode must have cancelled its own timers; sweep the
		// stragglers so nothing bleeds into the next mode.
		e.sched.CancelOwner(old.Name())
	}

	e.active = m
	func() {
		defer func() {
			if r := recover(); r != nil {
				debug.Log("engine", "activate fault in %q: %v", m.Name(), r)
			}
		}()
		m.Activate(trigger)
	}()
	debug.Log("engine", "mode %q active (trigger=%d)", name, trigger)
	return true
}

// Post marshals a callback from another goroutine onto the engine loop.
// Used by modes whose side effects complete asynchronously.
func (e *Engine) Post(fn func()) {
	select {
	case e.posted <- fn:
	default:
		go func() { e.posted <- fn }()
	}
}

// Run is the engine's event loop: one goroutine delivers hardware events,
// posted callbacks and timer fires, strictly one at a time. Blocks until
// ctx is done or the event channel closes.
func (e *Engine) Run(ctx context.Context, events <-chan midi.Event) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		wait := time.Hour
		if dl, ok := e.sched.NextDeadline(); ok {
			wait = dl.Sub(e.sched.Clock().Now())
			if wait < 0 {
				wait = 0
			}
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.Dispatch(ev)
		case fn := <-e.posted:
			fn()
		case <-timer.C:
			e.sched.Advance(e.sched.Clock().Now())
		}
	}
}
