// Package kernel implements a minimal cooperative periodic-task scheduler.
//
// The daemon runs two independent Kernel instances, one per execution
// context: the control context (sensor polling and appliance state machine)
// and the network context (watchdog and telemetry). A Kernel has no
// cross-instance awareness; correctness of state shared between the two
// contexts is the caller's responsibility (see package shared).
package kernel

import (
	"context"
	"time"
)

// Clock returns a monotonic millisecond counter. The kernel has no other
// time dependency.
type Clock func() int64

type task struct {
	fn       func()
	periodMs int64
	nextRun  int64
}

// Kernel runs registered tasks in registration order whenever their
// next-eligible-run time has passed. There is no priority and no preemption:
// a long-running task delays every subsequent task in the same tick and
// pushes out all future deadlines (drift, not catch-up).
type Kernel struct {
	clock Clock
	tasks []*task
}

// New creates a Kernel driven by the given clock.
func New(clock Clock) *Kernel {
	return &Kernel{clock: clock}
}

// Register appends a task with the given period in milliseconds. A period of
// 0 re-arms immediately, so the task runs on every tick. Tasks must not
// panic; the kernel does not recover them.
func (k *Kernel) Register(fn func(), periodMs int64) {
	k.tasks = append(k.tasks, &task{fn: fn, periodMs: periodMs})
}

// Tick executes each eligible task once, in registration order. A task's
// next deadline is computed from its actual completion time, never from the
// missed deadline, so an overrunning task drifts the whole schedule rather
// than triggering catch-up bursts. No task runs twice within a single Tick.
func (k *Kernel) Tick() {
	for _, t := range k.tasks {
		if k.clock() >= t.nextRun {
			t.fn()
			t.nextRun = k.clock() + t.periodMs
		}
	}
}

// Run ticks in a poll loop until ctx is done. Each execution context calls
// Run in its own goroutine.
func (k *Kernel) Run(ctx context.Context, poll time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		k.Tick()
		select {
		case <-ctx.Done():
			return
		case <-time.After(poll):
		}
	}
}
