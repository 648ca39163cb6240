package alert

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	taskPending int32 = iota
	taskDone
	taskCancelled
)

// Task is one deferred callback. It runs at most once; Cancel and the run
// race safely and whichever comes first wins.
type Task struct {
	fn    func()
	due   time.Time
	seq   uint64
	state atomic.Int32
}

// Cancel stops a pending task. It reports false when the task already ran or
// was already cancelled.
func (t *Task) Cancel() bool {
	return t.state.CompareAndSwap(taskPending, taskCancelled)
}

// Done reports whether the task has run.
func (t *Task) Done() bool { return t.state.Load() == taskDone }

func (t *Task) fire() bool {
	if !t.state.CompareAndSwap(taskPending, taskDone) {
		return false
	}
	t.fn()
	return true
}

// Scheduler is a cooperative single-threaded event loop. Callbacks never run
// concurrently with each other: they run on whichever goroutine calls
// RunPending or Run, in due-time order with ties broken by scheduling order.
type Scheduler struct {
	clock clockwork.Clock

	mu    sync.Mutex
	tasks taskHeap
	seq   uint64
	wake  chan struct{}
	run   sync.Mutex
}

func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock, wake: make(chan struct{}, 1)}
}

func (s *Scheduler) Clock() clockwork.Clock { return s.clock }

// Post schedules fn to run on the next turn of the loop.
func (s *Scheduler) Post(fn func()) *Task {
	return s.After(0, fn)
}

// After schedules fn to run once d has elapsed. It never blocks.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	s.seq++
	t := &Task{fn: fn, due: s.clock.Now().Add(d), seq: s.seq}
	heap.Push(&s.tasks, t)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return t
}

// Pending reports the number of scheduled tasks, cancelled ones included
// until their due time passes.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// RunPending runs every task that is due and returns how many ran.
func (s *Scheduler) RunPending() int {
	s.run.Lock()
	defer s.run.Unlock()

	ran := 0
	for {
		t := s.popDue()
		if t == nil {
			return ran
		}
		if t.fire() {
			ran++
		}
	}
}

func (s *Scheduler) popDue() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 || s.tasks[0].due.After(s.clock.Now()) {
		return nil
	}
	return heap.Pop(&s.tasks).(*Task)
}

func (s *Scheduler) nextDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].due, true
}

// Run drives the loop until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.RunPending()

		var timeout <-chan time.Time
		var timer clockwork.Timer
		if due, ok := s.nextDue(); ok {
			timer = s.clock.NewTimer(due.Sub(s.clock.Now()))
			timeout = timer.Chan()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case <-s.wake:
		case <-timeout:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
