// internal/engine/scheduler.go
//
// Named, cancellable timers owned by the game loop.
//
// Responsibilities:
//   - One-shot (After) and repeating (Every) tasks keyed by scope + name.
//   - Cancel a single task or every task in a scope (CancelScope).
//   - Deliver fires through post so callbacks run on the loop goroutine.
//
// Notes:
//   - Every task carries a generation. A timer that fires after its task was
//     cancelled or replaced finds a different generation and does nothing,
//     so a stale timer can never reach the next round.
//   - The task table is only touched from posted callbacks and from the
//     loop goroutine itself; it has no lock.

package engine

import "time"

// Timer is the subset of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the engine deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock is the wall clock.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Scope groups tasks that are cancelled together.
type Scope string

const (
	ScopeSession Scope = "session" // lives until the session restarts
	ScopeRound   Scope = "round"   // cancelled on every entry into PREPARING
)

type taskKey struct {
	scope Scope
	name  string
}

type task struct {
	gen   uint64
	timer Timer
}

type Scheduler struct {
	clock Clock
	post  func(func())
	gen   uint64
	tasks map[taskKey]*task
}

// NewScheduler returns a scheduler whose fired callbacks are handed to post.
func NewScheduler(clock Clock, post func(func())) *Scheduler {
	return &Scheduler{
		clock: clock,
		post:  post,
		tasks: make(map[taskKey]*task),
	}
}

// After runs fn once after d, replacing any task with the same key.
func (s *Scheduler) After(scope Scope, name string, d time.Duration, fn func()) {
	key := taskKey{scope, name}
	t := s.register(key)
	gen := t.gen
	t.timer = s.clock.AfterFunc(d, func() {
		s.post(func() {
			if !s.current(key, gen) {
				return
			}
			delete(s.tasks, key)
			fn()
		})
	})
}

// Every runs fn each interval until cancelled, replacing any task with the same key.
// fn may cancel its own task.
func (s *Scheduler) Every(scope Scope, name string, interval time.Duration, fn func()) {
	key := taskKey{scope, name}
	t := s.register(key)
	gen := t.gen

	var arm func()
	arm = func() {
		t.timer = s.clock.AfterFunc(interval, func() {
			s.post(func() {
				if !s.current(key, gen) {
					return
				}
				arm()
				fn()
			})
		})
	}
	arm()
}

// Cancel stops one task. Unknown keys are ignored.
func (s *Scheduler) Cancel(scope Scope, name string) {
	key := taskKey{scope, name}
	if t, ok := s.tasks[key]; ok {
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(s.tasks, key)
	}
}

// CancelScope stops every task in scope.
func (s *Scheduler) CancelScope(scope Scope) {
	for key, t := range s.tasks {
		if key.scope != scope {
			continue
		}
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(s.tasks, key)
	}
}

// CancelAll stops everything.
func (s *Scheduler) CancelAll() {
	for key, t := range s.tasks {
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(s.tasks, key)
	}
}

// Pending reports whether a task is armed.
func (s *Scheduler) Pending(scope Scope, name string) bool {
	_, ok := s.tasks[taskKey{scope, name}]
	return ok
}

// Len returns the number of armed tasks in scope.
func (s *Scheduler) Len(scope Scope) int {
	n := 0
	for key := range s.tasks {
		if key.scope == scope {
			n++
		}
	}
	return n
}

func (s *Scheduler) register(key taskKey) *task {
	s.Cancel(key.scope, key.name)
	s.gen++
	t := &task{gen: s.gen}
	s.tasks[key] = t
	return t
}

func (s *Scheduler) current(key taskKey, gen uint64) bool {
	t, ok := s.tasks[key]
	return ok && t.gen == gen
}
