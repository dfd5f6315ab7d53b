package engine

import (
	"testing"
	"time"
)

func newMemoryRig(seed int64) (*MemoryMode, *Engine, *recordSink, *fakeClock) {
	eng, sink, clock := newTestRig()
	m := NewMemoryMode(testDeps(eng, seed))
	eng.Register(m)
	eng.SwitchTo("memory", NoTrigger)
	return m, eng, sink, clock
}

// runPlayback ticks until the game is waiting for input.
func runPlayback(t *testing.T, m *MemoryMode, eng *Engine, clock *fakeClock) {
	t.Helper()
	interval := time.Duration(float64(memoryBaseTick) / difficultyTable[m.difficulty].speed)
	for i := 0; i < 4*len(m.sequence)+4; i++ {
		if m.phase == memoryWaiting {
			return
		}
		advance(clock, eng.Scheduler(), interval)
	}
	t.Fatalf("playback never finished, phase=%s", m.phase)
}

// tap presses and releases through the engine.
func tap(eng *Engine, control int) {
	eng.Dispatch(press(control))
	eng.Dispatch(release(control))
}

func TestMemoryDifficultySelection(t *testing.T) {
	m, eng, _, _ := newMemoryRig(1)

	cases := []struct {
		value uint8
		want  Difficulty
	}{
		{0, DifficultyEasy},
		{31, DifficultyEasy},
		{32, DifficultyMedium},
		{64, DifficultyHard},
		{96, DifficultyExpert},
		{127, DifficultyExpert},
	}
	for _, tc := range cases {
		eng.Dispatch(turn(memoryDifficultyControl, tc.value))
		if m.difficulty != tc.want {
			t.Fatalf("value %d: difficulty = %s, want %s", tc.value, m.difficulty, tc.want)
		}
	}

	// Other knobs never change it.
	eng.Dispatch(turn(memoryDifficultyControl, 0))
	eng.Dispatch(turn(5, 127))
	if m.difficulty != DifficultyEasy {
		t.Fatalf("difficulty = %s after turning knob 5", m.difficulty)
	}
}

func TestMemorySequenceGrowsByOne(t *testing.T) {
	m, eng, _, clock := newMemoryRig(7)

	tap(eng, 3) // start
	if m.phase != memoryDisplaying {
		t.Fatalf("phase = %s after start, want DisplayingSequence", m.phase)
	}
	if len(m.sequence) != 1 {
		t.Fatalf("sequence len = %d at level 1, want 1", len(m.sequence))
	}

	for level := 1; level <= 5; level++ {
		runPlayback(t, m, eng, clock)
		if got := len(m.sequence); got != level {
			t.Fatalf("sequence len = %d at level %d", got, level)
		}
		for _, step := range m.sequence {
			tap(eng, step)
		}
		if m.phase != memoryLevelComplete {
			t.Fatalf("phase = %s after correct replay", m.phase)
		}
		// Let the flash run out; the next level starts displaying.
		for m.phase == memoryLevelComplete {
			advance(clock, eng.Scheduler(), memoryBaseTick)
		}
		if m.phase != memoryDisplaying {
			t.Fatalf("phase = %s after flash, want DisplayingSequence", m.phase)
		}
	}
}

func TestMemoryWalkStaysOnNeighbors(t *testing.T) {
	for seed := int64(0); seed < 6; seed++ {
		m, eng, _, clock := newMemoryRig(seed)
		eng.Dispatch(turn(memoryDifficultyControl, 0)) // easy: orthogonal, no wrap

		tap(eng, 0)
		for level := 1; level <= 10; level++ {
			runPlayback(t, m, eng, clock)
			for _, step := range m.sequence {
				tap(eng, step)
			}
			for m.phase == memoryLevelComplete {
				advance(clock, eng.Scheduler(), memoryBaseTick)
			}
		}

		for i := 1; i < len(m.sequence); i++ {
			prev, cur := m.sequence[i-1], m.sequence[i]
			pr, pc := gridPos(prev)
			cr, cc := gridPos(cur)
			dr, dc := absInt(pr-cr), absInt(pc-cc)
			orthogonal := dr+dc == 1
			if !orthogonal {
				// Legal only when the whole neighborhood was recently used.
				if n := len(neighborsOf(prev, DifficultyEasy)); n > memoryRecentWindow {
					t.Fatalf("seed %d: step %d -> %d is no orthogonal neighbor", seed, prev, cur)
				}
			}
		}
	}
}

func TestMemoryEasyToleratesTwoMistakes(t *testing.T) {
	m, eng, _, clock := newMemoryRig(11)

	tap(eng, 0)
	for n := 1; n <= 2; n++ {
		runPlayback(t, m, eng, clock)
		tap(eng, (m.sequence[0]+1)%NumControls) // wrong
		if m.phase != memoryDisplaying {
			t.Fatalf("phase = %s after mistake %d, want a replay", m.phase, n)
		}
		if m.mistakes != n {
			t.Fatalf("mistakes = %d, want %d", m.mistakes, n)
		}
	}

	runPlayback(t, m, eng, clock)
	tap(eng, (m.sequence[0]+1)%NumControls) // third wrong ends it
	if m.phase != memoryGameOver {
		t.Fatalf("phase = %s after third mistake, want GameOver", m.phase)
	}

	// A press after the game-over flash returns to idle.
	for i := 0; i < memoryGameOverFlashes+1; i++ {
		advance(clock, eng.Scheduler(), memoryBaseTick)
	}
	tap(eng, 9)
	if m.phase != memoryIdle {
		t.Fatalf("phase = %s after game-over press, want Idle", m.phase)
	}
}

func TestMemoryExpertEndsOnFirstMistake(t *testing.T) {
	m, eng, _, clock := newMemoryRig(3)
	eng.Dispatch(turn(memoryDifficultyControl, 127))

	tap(eng, 0)
	runPlayback(t, m, eng, clock)
	tap(eng, (m.sequence[0]+1)%NumControls)
	if m.phase != memoryGameOver {
		t.Fatalf("phase = %s after one expert mistake, want GameOver", m.phase)
	}
}

func TestMemoryInputLockedDuringPlayback(t *testing.T) {
	m, eng, _, _ := newMemoryRig(5)

	tap(eng, 0)
	if m.phase != memoryDisplaying {
		t.Fatalf("phase = %s, want DisplayingSequence", m.phase)
	}

	// Even pressing the right answer mid-playback must not count.
	tap(eng, m.sequence[0])
	if m.userPos != 0 {
		t.Fatalf("userPos = %d after locked press, want 0", m.userPos)
	}
	if m.phase != memoryDisplaying {
		t.Fatalf("phase = %s after locked press", m.phase)
	}
}

func TestMemoryDeactivateStopsTimers(t *testing.T) {
	m, eng, sink, clock := newMemoryRig(2)

	tap(eng, 0)
	eng.Register(&scriptMode{name: "other", log: new([]string)})
	eng.SwitchTo("other", NoTrigger)

	if n := eng.Scheduler().Pending(m.Name()); n != 0 {
		t.Fatalf("pending(memory) = %d after switch, want 0", n)
	}
	sink.reset()
	advance(clock, eng.Scheduler(), 10*time.Second)
	if len(sink.writes) != 0 {
		t.Fatalf("memory painted after deactivation: %v", sink.writes)
	}
}
