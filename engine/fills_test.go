package engine

import (
	"testing"
	"time"
)

func TestChaseHeadMoves(t *testing.T) {
	eng, sink, clock := newTestRig()
	eng.Register(NewChaseMode(testDeps(eng, 1)))
	eng.SwitchTo("chase", NoTrigger)

	advance(clock, eng.Scheduler(), 120*time.Millisecond)
	if sink.frame[1] != 127 {
		t.Fatalf("frame[1] = %d after one step, want head at 127", sink.frame[1])
	}

	advance(clock, eng.Scheduler(), 120*time.Millisecond)
	if sink.frame[2] != 127 {
		t.Fatalf("frame[2] = %d after two steps, want head", sink.frame[2])
	}
	if sink.frame[1] != 72 {
		t.Fatalf("frame[1] = %d behind the head, want tail 72", sink.frame[1])
	}
}

func TestChasePressReverses(t *testing.T) {
	eng, sink, clock := newTestRig()
	m := NewChaseMode(testDeps(eng, 1))
	eng.Register(m)
	eng.SwitchTo("chase", NoTrigger)

	advance(clock, eng.Scheduler(), 120*time.Millisecond)
	advance(clock, eng.Scheduler(), 120*time.Millisecond) // head at 2
	tap(eng, 5)
	advance(clock, eng.Scheduler(), 120*time.Millisecond)
	if sink.frame[1] != 127 {
		t.Fatalf("frame[1] = %d after reversing, want head", sink.frame[1])
	}
	if m.dir != -1 {
		t.Fatalf("dir = %d after press, want -1", m.dir)
	}
}

func TestChaseTurnSetsSpeed(t *testing.T) {
	eng, _, _ := newTestRig()
	m := NewChaseMode(testDeps(eng, 1))
	eng.Register(m)
	eng.SwitchTo("chase", NoTrigger)

	eng.Dispatch(turn(0, 127))
	if m.interval != chaseMinInterval {
		t.Fatalf("interval = %v at full turn, want %v", m.interval, chaseMinInterval)
	}
	eng.Dispatch(turn(0, 0))
	if m.interval != chaseMaxInterval {
		t.Fatalf("interval = %v at zero, want %v", m.interval, chaseMaxInterval)
	}

	// Re-arming replaces the tick instead of stacking another.
	if n := eng.Scheduler().Pending("chase"); n != 1 {
		t.Fatalf("pending = %d after speed changes, want 1", n)
	}
}

func TestRippleRecenters(t *testing.T) {
	eng, sink, clock := newTestRig()
	eng.Register(NewRippleMode(testDeps(eng, 1)))
	eng.SwitchTo("ripple", NoTrigger)

	tap(eng, 15)
	advance(clock, eng.Scheduler(), 100*time.Millisecond)

	// One tick after re-seeding, radius 1 surrounds the new center.
	for _, c := range []int{10, 11, 14} {
		if sink.frame[c] != 127 {
			t.Fatalf("frame[%d] = %d, want ring at 127", c, sink.frame[c])
		}
	}
	if sink.frame[15] != 40 {
		t.Fatalf("frame[15] = %d at the center, want trailing 40", sink.frame[15])
	}
}

func TestFillModesStopOnDeactivate(t *testing.T) {
	constructors := []func(Deps) Mode{
		NewRainbowMode,
		NewWaveMode,
		NewRandomMode,
		NewBinaryCountMode,
		NewFibonacciMode,
		NewPulseMode,
		NewRippleMode,
	}

	for _, ctor := range constructors {
		eng, sink, clock := newTestRig()
		var log []string
		m := ctor(testDeps(eng, 1))
		eng.Register(m)
		eng.Register(&scriptMode{name: "quiet", log: &log})

		eng.SwitchTo(m.Name(), NoTrigger)
		advance(clock, eng.Scheduler(), time.Second)
		if len(sink.writes) == 0 {
			t.Fatalf("%s never painted", m.Name())
		}

		eng.SwitchTo("quiet", NoTrigger)
		if n := eng.Scheduler().Pending(m.Name()); n != 0 {
			t.Fatalf("%s: pending = %d after switch, want 0", m.Name(), n)
		}
		sink.reset()
		advance(clock, eng.Scheduler(), 10*time.Second)
		if len(sink.writes) != 0 {
			t.Fatalf("%s painted after deactivation: %v", m.Name(), sink.writes)
		}
	}
}

func TestFillCenterFollowsTrigger(t *testing.T) {
	eng, sink, clock := newTestRig()
	eng.Register(NewPulseMode(testDeps(eng, 1)))
	eng.SwitchTo("pulse", 12)

	advance(clock, eng.Scheduler(), 40*time.Millisecond)
	peak := sink.frame[12]
	for c := 0; c < NumControls; c++ {
		if c == 12 {
			continue
		}
		if sink.frame[c] >= peak {
			t.Fatalf("frame[%d] = %d not below the center's %d", c, sink.frame[c], peak)
		}
	}
}
