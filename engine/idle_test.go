package engine

import "testing"

func TestIdleEchoesTurns(t *testing.T) {
	eng, sink, _ := newTestRig()
	eng.Register(NewIdleMode(testDeps(eng, 1)))
	eng.SwitchTo("idle", NoTrigger)

	eng.Dispatch(turn(5, 90))
	if sink.frame[5] != 90 {
		t.Fatalf("frame[5] = %d, want 90", sink.frame[5])
	}
}

func TestIdleLinkRoundTrip(t *testing.T) {
	eng, sink, _ := newTestRig()
	eng.Register(NewIdleMode(testDeps(eng, 1)))
	eng.SwitchTo("idle", NoTrigger)

	eng.Dispatch(press(0)) // arm source
	if sink.frame[0] != 127 {
		t.Fatalf("armed source not lit, frame[0] = %d", sink.frame[0])
	}
	eng.Dispatch(release(0))
	eng.Dispatch(press(1)) // commit link 0 -> 1
	eng.Dispatch(release(1))

	sink.reset()
	eng.Dispatch(turn(0, 99))

	// Source and linked target are painted in the same dispatch.
	var got []ledWrite
	for _, w := range sink.writes {
		got = append(got, w)
	}
	if len(got) != 2 || got[0] != (ledWrite{0, 99}) || got[1] != (ledWrite{1, 99}) {
		t.Fatalf("writes = %v, want [{0 99} {1 99}]", got)
	}

	// Turning the target alone does not drive the source.
	sink.reset()
	eng.Dispatch(turn(1, 42))
	if len(sink.writes) != 1 || sink.writes[0] != (ledWrite{1, 42}) {
		t.Fatalf("writes = %v, want [{1 42}]", sink.writes)
	}
}

func TestIdleArmCancel(t *testing.T) {
	eng, sink, _ := newTestRig()
	eng.Register(NewIdleMode(testDeps(eng, 1)))
	eng.SwitchTo("idle", NoTrigger)

	eng.Dispatch(press(4))
	eng.Dispatch(release(4))
	eng.Dispatch(press(4)) // same knob again cancels arming
	eng.Dispatch(release(4))
	if sink.frame[4] != 0 {
		t.Fatalf("frame[4] = %d after cancel, want 0", sink.frame[4])
	}

	// No link was committed, so turns stay local.
	eng.Dispatch(press(2))
	eng.Dispatch(release(2))
	sink.reset()
	eng.Dispatch(turn(4, 30))
	if len(sink.writes) != 1 {
		t.Fatalf("writes = %v, expected a single local echo", sink.writes)
	}
}
