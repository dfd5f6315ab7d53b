package engine

import (
	"math/rand"
	"time"

	"github.com/redaphid/fidget-toy-midi-twister/debug"
)

// memoryPhase is the game's state machine position.
type memoryPhase int

const (
	memoryIdle memoryPhase = iota
	memoryDisplaying
	memoryWaiting
	memoryLevelComplete
	memoryGameOver
)

func (p memoryPhase) String() string {
	switch p {
	case memoryIdle:
		return "Idle"
	case memoryDisplaying:
		return "DisplayingSequence"
	case memoryWaiting:
		return "WaitingForInput"
	case memoryLevelComplete:
		return "LevelComplete"
	case memoryGameOver:
		return "GameOver"
	}
	return "Unknown"
}

// Difficulty selects speed, mistake allowance and how far the sequence's
// random walk may step.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	DifficultyExpert
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	case DifficultyExpert:
		return "expert"
	}
	return "unknown"
}

type difficultyParams struct {
	speed    float64 // playback speed multiplier
	mistakes int     // wrong presses tolerated before game over
	diagonal bool    // sequence may step diagonally
	wrap     bool    // sequence may wrap around grid edges
}

var difficultyTable = [4]difficultyParams{
	DifficultyEasy:   {speed: 1.0, mistakes: 2},
	DifficultyMedium: {speed: 1.35, mistakes: 1},
	DifficultyHard:   {speed: 1.7, mistakes: 1, diagonal: true},
	DifficultyExpert: {speed: 2.2, mistakes: 0, diagonal: true, wrap: true},
}

const (
	// memoryDifficultyControl's turn value selects difficulty while idle.
	memoryDifficultyControl = 0

	// memoryBaseTick is a quarter of one playback step at easy speed; each
	// step is three lit ticks and one dark gap tick.
	memoryBaseTick = 130 * time.Millisecond

	memoryRecentWindow = 3 // steps excluded from the walk to avoid short repeats

	memoryFlashTicks      = 4 // level complete flash length
	memoryGameOverFlashes = 6
)

// MemoryMode is a Simon-style game: a growing sequence of controls is played
// back, the player repeats it by pressing. The sequence is a biased random
// walk over the 4x4 grid, not pure random.
type MemoryMode struct {
	Base
	leds  *LEDs
	sched *Scheduler
	rand  *rand.Rand

	phase      memoryPhase
	difficulty Difficulty
	sequence   []int
	userPos    int
	mistakes   int
	counter    int
	best       int
	tick       TimerHandle
}

func NewMemoryMode(d Deps) *MemoryMode {
	return &MemoryMode{leds: d.LEDs, sched: d.Sched, rand: d.Rand}
}

func (m *MemoryMode) Name() string { return "memory" }

func (m *MemoryMode) Activate(trigger int) {
	m.phase = memoryIdle
	m.difficulty = DifficultyEasy
	m.sequence = nil
	m.userPos = 0
	m.mistakes = 0
	m.counter = 0
	m.paintIdle()
}

func (m *MemoryMode) Deactivate() {
	m.tick.Stop()
	m.sequence = nil
	m.phase = memoryIdle
	m.leds.Clear()
}

// paintIdle shows the difficulty selection on the bottom row.
func (m *MemoryMode) paintIdle() {
	m.leds.Clear()
	for i := 0; i < 4; i++ {
		v := 6
		if Difficulty(i) <= m.difficulty {
			v = 80
		}
		m.leds.Set(gridIndex(GridWidth-1, i), v)
	}
}

func (m *MemoryMode) HandleTurn(control int, value uint8) bool {
	if m.phase != memoryIdle || control != memoryDifficultyControl {
		return false
	}
	m.difficulty = Difficulty(value / 32)
	debug.Log("memory", "difficulty %s", m.difficulty)
	m.paintIdle()
	return true
}

func (m *MemoryMode) HandlePress(control int) bool {
	switch m.phase {
	case memoryIdle:
		m.startGame()
	case memoryDisplaying, memoryLevelComplete:
		// Input is locked while playback or the flash runs.
	case memoryWaiting:
		m.handleGuess(control)
	case memoryGameOver:
		m.phase = memoryIdle
		m.paintIdle()
	}
	return true
}

func (m *MemoryMode) startGame() {
	m.sequence = nil
	m.mistakes = 0
	m.extendSequence()
	m.startDisplay()
}

// startDisplay plays back the whole accumulated sequence, fully serialized;
// input is only accepted once playback completes.
func (m *MemoryMode) startDisplay() {
	m.phase = memoryDisplaying
	m.counter = 0
	m.userPos = 0
	m.leds.Clear()
	m.restartTick()
}

func (m *MemoryMode) restartTick() {
	m.tick.Stop()
	interval := time.Duration(float64(memoryBaseTick) / difficultyTable[m.difficulty].speed)
	m.tick = m.sched.Every(m.Name(), interval, m.onTick)
}

func (m *MemoryMode) onTick() {
	switch m.phase {
	case memoryDisplaying:
		idx := m.counter / 4
		if idx >= len(m.sequence) {
			m.tick.Stop()
			m.phase = memoryWaiting
			return
		}
		switch m.counter % 4 {
		case 0:
			m.leds.Set(m.sequence[idx], 127)
		case 3:
			m.leds.Set(m.sequence[idx], 0)
		}
		m.counter++

	case memoryLevelComplete:
		m.flashFrame()
		m.counter++
		if m.counter >= memoryFlashTicks {
			m.extendSequence()
			m.startDisplay()
		}

	case memoryGameOver:
		m.flashFrame()
		m.counter++
		if m.counter >= memoryGameOverFlashes {
			m.tick.Stop()
			m.paintScore()
		}
	}
}

func (m *MemoryMode) flashFrame() {
	v := 0
	if m.counter%2 == 0 {
		v = 100
	}
	m.leds.Fill(v)
}

// paintScore lights one ring per completed level, the session best dimly
// beyond it.
func (m *MemoryMode) paintScore() {
	score := m.score()
	m.leds.Clear()
	for c := 0; c < NumControls; c++ {
		if c < score {
			m.leds.Set(c, 90)
		} else if c < m.best {
			m.leds.Set(c, 16)
		}
	}
}

func (m *MemoryMode) score() int {
	if len(m.sequence) == 0 {
		return 0
	}
	return len(m.sequence) - 1
}

func (m *MemoryMode) handleGuess(control int) {
	if control == m.sequence[m.userPos] {
		m.leds.Set(control, 127)
		m.userPos++
		if m.userPos == len(m.sequence) {
			m.phase = memoryLevelComplete
			m.counter = 0
			m.restartTick()
		}
		return
	}

	m.mistakes++
	debug.Log("memory", "wrong press %d (want %d), mistakes=%d", control, m.sequence[m.userPos], m.mistakes)
	if m.mistakes > difficultyTable[m.difficulty].mistakes {
		if s := m.score(); s > m.best {
			m.best = s
		}
		m.phase = memoryGameOver
		m.counter = 0
		m.restartTick()
		return
	}
	// Replay the same sequence from the top to help correction.
	m.startDisplay()
}

// extendSequence appends one step. The first step is uniform; later steps
// walk to a neighbor of the previous step, avoiding anything used in the
// last few steps, falling back to uniform when nothing qualifies.
func (m *MemoryMode) extendSequence() {
	if len(m.sequence) == 0 {
		m.sequence = append(m.sequence, m.rand.Intn(NumControls))
		return
	}
	cands := m.candidates()
	if len(cands) == 0 {
		m.sequence = append(m.sequence, m.rand.Intn(NumControls))
		return
	}
	m.sequence = append(m.sequence, cands[m.rand.Intn(len(cands))])
}

// candidates lists the valid next steps for the walk.
func (m *MemoryMode) candidates() []int {
	prev := m.sequence[len(m.sequence)-1]
	recent := make(map[int]bool, memoryRecentWindow)
	for i := len(m.sequence) - memoryRecentWindow; i < len(m.sequence); i++ {
		if i >= 0 {
			recent[m.sequence[i]] = true
		}
	}
	var out []int
	for _, n := range neighborsOf(prev, m.difficulty) {
		if !recent[n] {
			out = append(out, n)
		}
	}
	return out
}

// neighborsOf returns prev's grid neighbors in a fixed order: orthogonal
// always, diagonal and wrap-around at higher difficulties.
func neighborsOf(c int, d Difficulty) []int {
	p := difficultyTable[d]
	deltas := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	if p.diagonal {
		deltas = append(deltas, [2]int{-1, -1}, [2]int{-1, 1}, [2]int{1, -1}, [2]int{1, 1})
	}

	row, col := gridPos(c)
	seen := make(map[int]bool)
	var out []int
	for _, dlt := range deltas {
		nr, nc := row+dlt[0], col+dlt[1]
		if p.wrap {
			nr = (nr + GridWidth) % GridWidth
			nc = (nc + GridWidth) % GridWidth
		} else if nr < 0 || nr >= GridWidth || nc < 0 || nc >= GridWidth {
			continue
		}
		n := gridIndex(nr, nc)
		if n == c || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
