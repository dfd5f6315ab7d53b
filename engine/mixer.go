package engine

import (
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/redaphid/fidget-toy-midi-twister/debug"
)

// mixerStrategy is a pluggable transition applied to a color group.
type mixerStrategy int

const (
	strategyFadeToMax mixerStrategy = iota // interpolate original -> saturation
	strategyCycleHue                       // rotate the byte through the hue circle
)

func (s mixerStrategy) String() string {
	if s == strategyCycleHue {
		return "cycle-hue"
	}
	return "fade-to-max"
}

// colorGroup is the set of controls sharing one applied source color and one
// animation descriptor. The animation value is computed once per tick and
// fanned out, so members are always bit-identical.
type colorGroup struct {
	original uint8
	controls []int
	easing   Easing
	strategy mixerStrategy
	duration time.Duration
	start    time.Time
}

const (
	mixerTickInterval = 40 * time.Millisecond
	mixerDuration     = 1600 * time.Millisecond
	mixerComponents   = 3 // controls 0,1,2 are the R,G,B knobs
)

// MixerMode mixes a color from three component knobs and applies it to other
// controls. Applied controls with the same source color form a group driven
// by one shared animation; a single lazy tick drives every group and stops
// itself when none remain.
type MixerMode struct {
	Base
	leds  *LEDs
	sched *Scheduler
	rand  *rand.Rand

	comps      [mixerComponents]uint8
	groups     map[uint8]*colorGroup
	assigned   map[int]uint8 // control -> group key
	tick       TimerHandle
	ticking    bool
	nextEasing int
}

func NewMixerMode(d Deps) *MixerMode {
	return &MixerMode{leds: d.LEDs, sched: d.Sched, rand: d.Rand}
}

func (m *MixerMode) Name() string { return "mixer" }

func (m *MixerMode) Activate(trigger int) {
	m.comps = [mixerComponents]uint8{}
	m.groups = make(map[uint8]*colorGroup)
	m.assigned = make(map[int]uint8)
	m.ticking = false
	m.nextEasing = 0
	m.leds.Clear()
}

func (m *MixerMode) HandleTurn(control int, value uint8) bool {
	if control >= mixerComponents {
		return false
	}
	m.comps[control] = value
	m.leds.Set(control, int(value))
	return true
}

func (m *MixerMode) HandlePress(control int) bool {
	if control < mixerComponents {
		// Pressing a component knob zeroes it.
		m.comps[control] = 0
		m.leds.Set(control, 0)
		return true
	}

	if key, ok := m.assigned[control]; ok {
		m.stopGroup(key)
		return true
	}

	m.apply(control)
	return true
}

// apply paints the current mixed color onto a control and joins it to the
// group for that source value, creating the group (and its animation
// descriptor) on first use.
func (m *MixerMode) apply(control int) {
	val := m.MixedColor()
	g, ok := m.groups[val]
	if !ok {
		g = &colorGroup{
			original: val,
			easing:   Easings[m.nextEasing%len(Easings)],
			strategy: mixerStrategy(m.rand.Intn(2)),
			duration: mixerDuration,
			start:    m.sched.Clock().Now(),
		}
		debug.Log("mixer", "new group color=%d easing=%s strategy=%s",
			val, EasingNames[m.nextEasing%len(Easings)], g.strategy)
		m.nextEasing++
		m.groups[val] = g
	}
	g.controls = append(g.controls, control)
	m.assigned[control] = val
	m.leds.Set(control, int(val))
	m.ensureTicking()
}

// stopGroup halts a group's animation and restores the original color to
// every member.
func (m *MixerMode) stopGroup(key uint8) {
	g, ok := m.groups[key]
	if !ok {
		return
	}
	for _, c := range g.controls {
		m.leds.Set(c, int(g.original))
		delete(m.assigned, c)
	}
	delete(m.groups, key)
	if len(m.groups) == 0 {
		m.tick.Stop()
		m.ticking = false
	}
}

// ensureTicking lazily starts the one shared tick on first group creation.
func (m *MixerMode) ensureTicking() {
	if m.ticking {
		return
	}
	m.ticking = true
	m.tick = m.sched.Every(m.Name(), mixerTickInterval, m.onTick)
}

func (m *MixerMode) onTick() {
	now := m.sched.Clock().Now()
	for _, g := range m.groups {
		v := g.valueAt(now)
		for _, c := range g.controls {
			m.leds.Set(c, int(v))
		}
	}
}

// valueAt computes the group's shared instantaneous value: looping progress
// through the easing curve, then the transition strategy.
func (g *colorGroup) valueAt(now time.Time) uint8 {
	elapsed := now.Sub(g.start) % g.duration
	progress := float64(elapsed) / float64(g.duration)
	eased := g.easing(progress)

	switch g.strategy {
	case strategyCycleHue:
		return uint8((int(g.original) + int(eased*127)) % 128)
	default: // fade to max brightness
		return uint8(float64(g.original) + eased*float64(127-int(g.original)))
	}
}

// MixedColor derives the single-byte mixed color from the three components:
// the hue of the RGB triple scaled onto the 0-127 ring, falling back to
// plain brightness for gray inputs.
func (m *MixerMode) MixedColor() uint8 {
	r := float64(m.comps[0]) / 127
	g := float64(m.comps[1]) / 127
	b := float64(m.comps[2]) / 127

	col := colorful.Color{R: r, G: g, B: b}
	h, s, v := col.Hsv()
	if s == 0 {
		return uint8(v * 127)
	}
	return uint8(h / 360 * 127)
}

func (m *MixerMode) Deactivate() {
	m.tick.Stop()
	m.ticking = false
	m.groups = nil
	m.assigned = nil
	m.leds.Clear()
}
