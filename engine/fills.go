package engine

import (
	"math"
	"math/rand"
	"time"
)

// fillMode is the shared chassis for the animation-only modes: one repeating
// tick renders a full 16-control frame into a persistent buffer and paints
// it. Variants plug in a render function; frame state carries over between
// ticks so renders can decay or accumulate.
type fillMode struct {
	Base
	name     string
	leds     *LEDs
	sched    *Scheduler
	rand     *rand.Rand
	interval time.Duration
	render   func(step int, frame []int)

	step   int
	center int
	frame  [NumControls]int
	tick   TimerHandle
}

func newFillMode(name string, d Deps, interval time.Duration) *fillMode {
	return &fillMode{
		name:     name,
		leds:     d.LEDs,
		sched:    d.Sched,
		rand:     d.Rand,
		interval: interval,
	}
}

func (m *fillMode) Name() string { return m.name }

func (m *fillMode) Activate(trigger int) {
	m.step = 0
	m.center = gridIndex(1, 1)
	if trigger >= 0 && trigger < NumControls {
		m.center = trigger
	}
	for i := range m.frame {
		m.frame[i] = 0
	}
	m.leds.Clear()
	m.tick = m.sched.Every(m.name, m.interval, m.advance)
}

func (m *fillMode) advance() {
	m.step++
	m.render(m.step, m.frame[:])
	for c, v := range m.frame {
		m.leds.Set(c, v)
	}
}

func (m *fillMode) Deactivate() {
	m.tick.Stop()
	m.leds.Clear()
}

// NewRainbowMode rotates a brightness gradient across the grid.
func NewRainbowMode(d Deps) Mode {
	m := newFillMode("rainbow", d, 60*time.Millisecond)
	m.render = func(step int, frame []int) {
		for c := range frame {
			frame[c] = (c*8 + step*4) % 128
		}
	}
	return m
}

// NewWaveMode sends a sine wave travelling across the grid columns.
func NewWaveMode(d Deps) Mode {
	m := newFillMode("wave", d, 50*time.Millisecond)
	m.render = func(step int, frame []int) {
		for c := range frame {
			_, col := gridPos(c)
			phase := float64(col)/GridWidth - float64(step)*0.08
			frame[c] = int(127 * sinePulse(math.Mod(math.Abs(phase), 1)))
		}
	}
	return m
}

// NewRandomMode sparkles: a few random rings light each tick, the rest fade.
func NewRandomMode(d Deps) Mode {
	m := newFillMode("random", d, 90*time.Millisecond)
	m.render = func(step int, frame []int) {
		for c := range frame {
			frame[c] = frame[c] * 2 / 3
		}
		for k := 0; k < 3; k++ {
			frame[m.rand.Intn(NumControls)] = 32 + m.rand.Intn(96)
		}
	}
	return m
}

// NewBinaryCountMode shows a free-running counter across the 16 rings,
// control 0 as the most significant bit.
func NewBinaryCountMode(d Deps) Mode {
	m := newFillMode("binarycount", d, 250*time.Millisecond)
	m.render = func(step int, frame []int) {
		for c := range frame {
			if step&(1<<(NumControls-1-c)) != 0 {
				frame[c] = 110
			} else {
				frame[c] = 4
			}
		}
	}
	return m
}

// NewFibonacciMode steps through the Fibonacci sequence, lighting each ring
// with its term mod 128.
func NewFibonacciMode(d Deps) Mode {
	m := newFillMode("fibonacci", d, 180*time.Millisecond)
	m.render = func(step int, frame []int) {
		a, b := 1, 1
		lit := step%NumControls + 1
		for c := range frame {
			if c < lit {
				frame[c] = a % 128
				a, b = b, (a+b)%128
			} else {
				frame[c] = 0
			}
		}
	}
	return m
}

// NewPulseMode breathes the whole surface through a smooth cycle, ceiling
// seeded bright at the center control.
func NewPulseMode(d Deps) Mode {
	m := newFillMode("pulse", d, 40*time.Millisecond)
	const period = 50 // ticks per breath
	m.render = func(step int, frame []int) {
		level := int(110 * sinePulse(float64(step%period)/period))
		for c := range frame {
			frame[c] = level
		}
		frame[m.center] = minInt(127, level+24)
	}
	return m
}

// rippleMode expands rings outward from a center control; pressing any
// control re-seeds the ripple there.
type rippleMode struct {
	*fillMode
}

// NewRippleMode creates the ripple animation.
func NewRippleMode(d Deps) Mode {
	f := newFillMode("ripple", d, 100*time.Millisecond)
	const maxRadius = GridWidth * 2
	f.render = func(step int, frame []int) {
		radius := step % maxRadius
		for c := range frame {
			switch chebyshev(c, f.center) {
			case radius:
				frame[c] = 127
			case radius - 1:
				frame[c] = 40
			default:
				frame[c] = 0
			}
		}
	}
	return &rippleMode{fillMode: f}
}

func (m *rippleMode) HandlePress(control int) bool {
	m.center = control
	m.step = 0
	return true
}

// chebyshev is the grid distance between two controls (diagonals count 1).
func chebyshev(a, b int) int {
	ar, ac := gridPos(a)
	br, bc := gridPos(b)
	dr := absInt(ar - br)
	dc := absInt(ac - bc)
	return maxInt(dr, dc)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
