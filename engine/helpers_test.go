package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/redaphid/fidget-toy-midi-twister/midi"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

// advance moves the clock forward and fires everything that came due.
func advance(c *fakeClock, s *Scheduler, d time.Duration) {
	c.now = c.now.Add(d)
	s.Advance(c.now)
}

type ledWrite struct {
	control int
	value   uint8
}

// recordSink captures every LED write plus the resulting surface.
type recordSink struct {
	writes []ledWrite
	frame  [NumControls]uint8
}

func (s *recordSink) SetLED(control int, value uint8) error {
	s.writes = append(s.writes, ledWrite{control, value})
	s.frame[control] = value
	return nil
}

func (s *recordSink) reset() {
	s.writes = nil
}

// newTestRig wires an engine onto a recording sink and a fake clock.
func newTestRig() (*Engine, *recordSink, *fakeClock) {
	clock := newFakeClock()
	sink := &recordSink{}
	eng := New(NewScheduler(clock), sink)
	return eng, sink, clock
}

func testDeps(eng *Engine, seed int64) Deps {
	return Deps{
		LEDs:  eng.LEDs(),
		Sched: eng.Scheduler(),
		Rand:  rand.New(rand.NewSource(seed)),
	}
}

func turn(c int, v uint8) midi.Event {
	return midi.Event{Kind: midi.EventTurn, Control: c, Value: v}
}

func press(c int) midi.Event {
	return midi.Event{Kind: midi.EventPress, Control: c}
}

func release(c int) midi.Event {
	return midi.Event{Kind: midi.EventRelease, Control: c}
}

// scriptMode records its lifecycle and handler calls into a shared log.
type scriptMode struct {
	Base
	name string
	log  *[]string
}

func (m *scriptMode) Name() string { return m.name }

func (m *scriptMode) Activate(trigger int) {
	*m.log = append(*m.log, fmt.Sprintf("%s.activate(%d)", m.name, trigger))
}

func (m *scriptMode) HandleTurn(control int, value uint8) bool {
	*m.log = append(*m.log, fmt.Sprintf("%s.turn(%d,%d)", m.name, control, value))
	return true
}

func (m *scriptMode) HandlePress(control int) bool {
	*m.log = append(*m.log, fmt.Sprintf("%s.press(%d)", m.name, control))
	return true
}

func (m *scriptMode) HandleRelease(control int) bool {
	*m.log = append(*m.log, fmt.Sprintf("%s.release(%d)", m.name, control))
	return true
}

func (m *scriptMode) Deactivate() {
	*m.log = append(*m.log, m.name+".deactivate")
}

func countPrefix(log []string, prefix string) int {
	n := 0
	for _, entry := range log {
		if len(entry) >= len(prefix) && entry[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
