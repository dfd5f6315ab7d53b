package engine

import (
	"context"
	"time"

	"github.com/redaphid/fidget-toy-midi-twister/debug"
)

// Uploader applies an external image to a control. Implementations live
// outside the engine; the mode only needs the success/failure report.
type Uploader interface {
	Apply(ctx context.Context, control int) error
}

const (
	snapshotPendingLevel = 40
	snapshotTimeout      = 10 * time.Second
	snapshotErrorFlashes = 6
)

// SnapshotMode fires the image-upload hook for whichever control is
// pressed and reflects the outcome on that control's ring: dim while in
// flight, full bright on success, a short blink burst on failure.
type SnapshotMode struct {
	Base
	leds     *LEDs
	sched    *Scheduler
	uploader Uploader
	post     func(func()) // marshals results back onto the engine loop

	active  bool
	pending map[int]bool
}

func NewSnapshotMode(d Deps, uploader Uploader, post func(func())) *SnapshotMode {
	return &SnapshotMode{leds: d.LEDs, sched: d.Sched, uploader: uploader, post: post}
}

func (m *SnapshotMode) Name() string { return "snapshot" }

func (m *SnapshotMode) Activate(trigger int) {
	m.active = true
	m.pending = make(map[int]bool)
	m.leds.Clear()
}

func (m *SnapshotMode) HandlePress(control int) bool {
	if m.uploader == nil {
		debug.Log("snapshot", "no uploader configured")
		m.blinkError(control)
		return true
	}
	if m.pending[control] {
		return true
	}
	m.pending[control] = true
	m.leds.Set(control, snapshotPendingLevel)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		err := m.uploader.Apply(ctx, control)
		m.post(func() { m.finish(control, err) })
	}()
	return true
}

// finish runs on the engine loop. The mode may have been deactivated while
// the upload was in flight; results for a past session are dropped.
func (m *SnapshotMode) finish(control int, err error) {
	if !m.active {
		return
	}
	delete(m.pending, control)
	if err != nil {
		debug.Log("snapshot", "apply control=%d failed: %v", control, err)
		m.blinkError(control)
		return
	}
	debug.Log("snapshot", "apply control=%d ok", control)
	m.leds.Set(control, 127)
}

// blinkError flashes the control a few times and leaves it dark.
func (m *SnapshotMode) blinkError(control int) {
	count := 0
	var handle TimerHandle
	handle = m.sched.Every(m.Name(), 120*time.Millisecond, func() {
		v := 0
		if count%2 == 0 {
			v = 127
		}
		m.leds.Set(control, v)
		count++
		if count >= snapshotErrorFlashes {
			handle.Stop()
			m.leds.Set(control, 0)
		}
	})
}

func (m *SnapshotMode) Deactivate() {
	m.active = false
	m.sched.CancelOwner(m.Name())
	m.pending = nil
	m.leds.Clear()
}
