package engine

import (
	"container/heap"
	"sync"
	"time"
)

// Clock abstracts time so tests can drive the scheduler deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Scheduler is the single cooperative timer domain of the engine. All
// waiting is expressed as scheduled callbacks; nothing blocks. Every timer
// carries an owner tag so a whole lifecycle's worth of timers can be
// cancelled at once when a mode deactivates.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	timers timerHeap
	nextID uint64
}

type timer struct {
	id        uint64
	owner     string
	deadline  time.Time
	interval  time.Duration // 0 = one-shot
	fn        func()
	cancelled bool
	index     int
}

// TimerHandle cancels one scheduled callback. The zero value is inert.
type TimerHandle struct {
	t *timer
}

// Stop cancels the timer. Stopping an already-fired or zero handle is a
// no-op.
func (h TimerHandle) Stop() {
	if h.t != nil {
		h.t.cancelled = true
	}
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// After schedules fn once, d from now, tagged with owner.
func (s *Scheduler) After(owner string, d time.Duration, fn func()) TimerHandle {
	return s.schedule(owner, d, 0, fn)
}

// Every schedules fn repeatedly at interval d, tagged with owner. Missed
// ticks collapse: after a stall the timer fires once and re-aligns.
func (s *Scheduler) Every(owner string, d time.Duration, fn func()) TimerHandle {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.schedule(owner, d, d, fn)
}

func (s *Scheduler) schedule(owner string, d, interval time.Duration, fn func()) TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &timer{
		id:       s.nextID,
		owner:    owner,
		deadline: s.clock.Now().Add(d),
		interval: interval,
		fn:       fn,
	}
	heap.Push(&s.timers, t)
	return TimerHandle{t: t}
}

// CancelOwner cancels every pending timer tagged with owner.
func (s *Scheduler) CancelOwner(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		if t.owner == owner {
			t.cancelled = true
		}
	}
}

// Pending counts live timers tagged with owner.
func (s *Scheduler) Pending(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if t.owner == owner && !t.cancelled {
			n++
		}
	}
	return n
}

// NextDeadline reports the earliest live deadline, if any.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best time.Time
	found := false
	for _, t := range s.timers {
		if t.cancelled {
			continue
		}
		if !found || t.deadline.Before(best) {
			best = t.deadline
			found = true
		}
	}
	return best, found
}

// Advance fires every timer due at or before now, in deadline order, and
// returns how many fired. Callbacks run outside the scheduler lock so they
// may schedule or cancel freely; a repeating timer is re-armed before its
// callback runs so the callback can Stop it.
func (s *Scheduler) Advance(now time.Time) int {
	fired := 0
	for {
		s.mu.Lock()
		if len(s.timers) == 0 {
			s.mu.Unlock()
			return fired
		}
		t := s.timers[0]
		if t.cancelled {
			heap.Pop(&s.timers)
			s.mu.Unlock()
			continue
		}
		if t.deadline.After(now) {
			s.mu.Unlock()
			return fired
		}
		heap.Pop(&s.timers)
		if t.interval > 0 {
			t.deadline = t.deadline.Add(t.interval)
			if !t.deadline.After(now) {
				t.deadline = now.Add(t.interval)
			}
			heap.Push(&s.timers, t)
		}
		fn := t.fn
		s.mu.Unlock()

		fn()
		fired++
	}
}

// timerHeap is a min-heap on deadline, id as tiebreak for stable order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].id < h[j].id
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
