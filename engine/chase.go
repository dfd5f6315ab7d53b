package engine

import "time"

// ChaseMode runs a single lit control through the grid in scan order with a
// fading tail. Any knob turn sets the speed, any press reverses direction.
type ChaseMode struct {
	Base
	leds  *LEDs
	sched *Scheduler

	pos      int
	dir      int
	interval time.Duration
	tick     TimerHandle
}

// Tail brightness behind the chase head.
var chaseTail = []int{127, 72, 32, 10}

const (
	chaseMinInterval = 30 * time.Millisecond
	chaseMaxInterval = 400 * time.Millisecond
)

func NewChaseMode(d Deps) *ChaseMode {
	return &ChaseMode{leds: d.LEDs, sched: d.Sched}
}

func (m *ChaseMode) Name() string { return "chase" }

func (m *ChaseMode) Activate(trigger int) {
	m.pos = 0
	if trigger >= 0 && trigger < NumControls {
		m.pos = trigger
	}
	m.dir = 1
	m.interval = 120 * time.Millisecond
	m.leds.Clear()
	m.restart()
}

func (m *ChaseMode) restart() {
	m.tick.Stop()
	m.tick = m.sched.Every(m.Name(), m.interval, m.step)
}

func (m *ChaseMode) step() {
	m.pos = (m.pos + m.dir + NumControls) % NumControls
	// Repaint the whole surface: head plus fading tail behind it.
	for c := 0; c < NumControls; c++ {
		behind := ((m.pos-c)*m.dir + NumControls) % NumControls
		if behind < len(chaseTail) {
			m.leds.Set(c, chaseTail[behind])
		} else {
			m.leds.Set(c, 0)
		}
	}
}

func (m *ChaseMode) HandleTurn(control int, value uint8) bool {
	span := chaseMaxInterval - chaseMinInterval
	m.interval = chaseMaxInterval - span*time.Duration(value)/127
	m.restart()
	return true
}

func (m *ChaseMode) HandlePress(control int) bool {
	m.dir = -m.dir
	return true
}

func (m *ChaseMode) Deactivate() {
	m.tick.Stop()
	m.leds.Clear()
}
