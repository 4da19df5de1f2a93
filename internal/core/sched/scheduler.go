package sched

import (
	"time"

	coresys "github.com/afelia/fakewater/internal/core/system"
)

// Task is a handle to a repeating callback. Cancel is safe to call more than
// once and from inside the callback itself.
type Task struct {
	id        uint64
	next      uint64 // tick at which the task runs next
	period    uint64
	fn        func(*Task)
	cancelled bool
}

func (t *Task) Cancel()         { t.cancelled = true }
func (t *Task) Cancelled() bool { return t.cancelled }

// Scheduler runs tick-based repeating tasks. It is itself a System in the
// update phase, so every task runs on the game loop goroutine.
type Scheduler struct {
	tick   uint64
	nextID uint64
	tasks  []*Task
}

func New() *Scheduler {
	return &Scheduler{tasks: make([]*Task, 0, 32)}
}

// RunTaskTimer runs fn after delay ticks and then every period ticks until
// the returned task is cancelled. A delay of 0 runs fn on the next Update.
func (s *Scheduler) RunTaskTimer(delay, period int, fn func(*Task)) *Task {
	if delay < 0 {
		delay = 0
	}
	if period < 1 {
		period = 1
	}
	s.nextID++
	t := &Task{
		id:     s.nextID,
		next:   s.tick + 1 + uint64(delay),
		period: uint64(period),
		fn:     fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *Scheduler) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Update advances one tick and runs every due task in creation order.
// Tasks created during Update first run on a later tick.
func (s *Scheduler) Update(_ time.Duration) {
	s.tick++
	due := s.tasks
	for _, t := range due {
		if t.cancelled || t.next > s.tick {
			continue
		}
		t.fn(t)
		t.next = s.tick + t.period
	}

	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}
