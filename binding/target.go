// Package binding delivers the current and future values of a reactive source
// to an imperative setter for as long as a lifetime lasts.
package binding

import (
	"github.com/delaneyj/bindparty/lifetime"
	"github.com/delaneyj/bindparty/scheduler"
)

// Target consumes values until its lifetime ends.
type Target[V any] interface {
	Lifetime() *lifetime.Lifetime
	Consume(V)
}

// Provider is anything that can hand out a binding target for itself.
type Provider[V any] interface {
	BindingTarget() Target[V]
}

// AnyTarget wraps a setter, the lifetime bounding it, and how values reach it.
//
// With no scheduler, Consume calls the setter on the calling goroutine. With
// a scheduler, Consume calls the setter inline when the caller is already on
// that scheduler's context and enqueues it otherwise; it never blocks.
type AnyTarget[V any] struct {
	setter   func(V)
	lt       *lifetime.Lifetime
	delivery scheduler.Scheduler
}

// New returns a target that calls setter synchronously.
func New[V any](setter func(V), lt *lifetime.Lifetime) *AnyTarget[V] {
	if setter == nil {
		panic("binding: nil setter")
	}
	if lt == nil {
		panic("binding: nil lifetime")
	}
	return &AnyTarget[V]{setter: setter, lt: lt}
}

// NewScheduled returns a target whose setter always runs on s.
func NewScheduled[V any](setter func(V), s scheduler.Scheduler, lt *lifetime.Lifetime) *AnyTarget[V] {
	t := New(setter, lt)
	if s != nil {
		t.delivery = scheduler.ReentrancySafe(s)
	}
	return t
}

// NewMain returns a target whose setter always runs on scheduler.Main.
func NewMain[V any](setter func(V), lt *lifetime.Lifetime) *AnyTarget[V] {
	return NewScheduled(setter, scheduler.Main(), lt)
}

// MakeTarget returns a target that runs action on s for as long as lt lasts.
// A nil scheduler delivers synchronously.
func MakeTarget[V any](lt *lifetime.Lifetime, s scheduler.Scheduler, action func(V)) *AnyTarget[V] {
	return NewScheduled(action, s, lt)
}

func (t *AnyTarget[V]) Lifetime() *lifetime.Lifetime {
	return t.lt
}

func (t *AnyTarget[V]) Consume(v V) {
	if t.lt.HasEnded() {
		return
	}
	if t.delivery == nil {
		t.setter(v)
		return
	}
	t.delivery.Schedule(func() {
		// the lifetime may have ended while this was queued
		if t.lt.HasEnded() {
			return
		}
		t.setter(v)
	})
}

func (t *AnyTarget[V]) BindingTarget() Target[V] {
	return t
}
