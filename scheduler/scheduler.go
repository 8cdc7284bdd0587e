// Package scheduler defines where and when units of work run.
//
// Every scheduler reports whether the calling goroutine is already running on
// its execution context. Delivery code relies on that report to run work inline
// instead of enqueueing onto a context it already occupies, which would
// otherwise deadlock a serial queue waiting on itself.
package scheduler

import (
	"errors"

	"github.com/delaneyj/bindparty/disposable"
)

// ErrClosed is returned when work is submitted to a scheduler that has been closed.
var ErrClosed = errors.New("scheduler: closed")

type Scheduler interface {
	// Schedule enqueues fn in FIFO order and returns without waiting for it.
	// Disposing the result cancels fn if it has not started yet.
	Schedule(fn func()) disposable.Disposable
	// IsCurrent reports whether the caller is running on this scheduler's
	// execution context.
	IsCurrent() bool
}

type immediate struct{}

func (immediate) Schedule(fn func()) disposable.Disposable {
	fn()
	return disposable.Nop
}

func (immediate) IsCurrent() bool { return true }

// Immediate runs work synchronously on the calling goroutine.
var Immediate Scheduler = immediate{}

type reentrancySafe struct {
	target Scheduler
}

// ReentrancySafe wraps s so that work submitted from s's own execution context
// runs inline, and work submitted from anywhere else is enqueued on s.
//
// The check happens when Schedule is called, not where the work originated, so
// a value that hopped through other schedulers before landing on s is treated
// the same as one produced on s directly.
func ReentrancySafe(s Scheduler) Scheduler {
	if rs, ok := s.(reentrancySafe); ok {
		return rs
	}
	return reentrancySafe{target: s}
}

func (r reentrancySafe) Schedule(fn func()) disposable.Disposable {
	if r.target.IsCurrent() {
		fn()
		return disposable.Nop
	}
	return r.target.Schedule(fn)
}

func (r reentrancySafe) IsCurrent() bool {
	return r.target.IsCurrent()
}
