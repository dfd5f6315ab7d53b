package engine

import (
	"math/rand"
	"time"
)

// BinaryGameMode is a small puzzle: a target byte is shown on the top two
// rows and the player toggles the bottom two rows' buttons until the bits
// match. A match flashes the grid and deals a new target.
type BinaryGameMode struct {
	Base
	leds  *LEDs
	sched *Scheduler
	rand  *rand.Rand

	target    uint8
	bits      uint8
	animating bool
	animStep  int
	tick      TimerHandle
	solved    int
}

const (
	binaryRowLen        = 8 // controls 0-7 target, 8-15 player
	binaryWinFlashTicks = 8
	binaryFlashInterval = 80 * time.Millisecond
)

func NewBinaryGameMode(d Deps) *BinaryGameMode {
	return &BinaryGameMode{leds: d.LEDs, sched: d.Sched, rand: d.Rand}
}

func (m *BinaryGameMode) Name() string { return "binary" }

func (m *BinaryGameMode) Activate(trigger int) {
	m.solved = 0
	m.animating = false
	m.newRound()
}

func (m *BinaryGameMode) newRound() {
	m.target = uint8(m.rand.Intn(256))
	m.bits = 0
	m.animating = false
	m.paint()
}

// paint renders target bits bright on top, player bits below, MSB first.
func (m *BinaryGameMode) paint() {
	for c := 0; c < binaryRowLen; c++ {
		v := 6
		if m.target&bitMask(c) != 0 {
			v = 110
		}
		m.leds.Set(c, v)
	}
	for c := binaryRowLen; c < NumControls; c++ {
		v := 0
		if m.bits&bitMask(c-binaryRowLen) != 0 {
			v = 127
		}
		m.leds.Set(c, v)
	}
}

func bitMask(pos int) uint8 {
	return 1 << (binaryRowLen - 1 - pos)
}

func (m *BinaryGameMode) HandlePress(control int) bool {
	if m.animating {
		return true
	}
	if control < binaryRowLen {
		return false
	}
	m.bits ^= bitMask(control - binaryRowLen)
	m.paint()
	if m.bits == m.target {
		m.solved++
		m.animating = true
		m.animStep = 0
		m.tick = m.sched.Every(m.Name(), binaryFlashInterval, m.winStep)
	}
	return true
}

func (m *BinaryGameMode) winStep() {
	if m.animStep%2 == 0 {
		m.leds.Fill(127)
	} else {
		m.leds.Clear()
	}
	m.animStep++
	if m.animStep >= binaryWinFlashTicks {
		m.tick.Stop()
		m.newRound()
	}
}

func (m *BinaryGameMode) Deactivate() {
	m.tick.Stop()
	m.animating = false
	m.leds.Clear()
}
