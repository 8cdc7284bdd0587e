// Package reactive provides the value sources bindings observe: hot signals,
// cold producers, and mutable properties with a readable current value.
package reactive

import "fmt"

type EventKind uint8

const (
	KindValue EventKind = iota
	KindFailed
	KindCompleted
	KindInterrupted
)

func (k EventKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindFailed:
		return "failed"
	case KindCompleted:
		return "completed"
	case KindInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// Event is one item of a stream: any number of values followed by at most one
// terminal event.
type Event[V any] struct {
	Kind  EventKind
	Value V
	Err   error
}

func NewValue[V any](v V) Event[V] {
	return Event[V]{Kind: KindValue, Value: v}
}

func NewFailed[V any](err error) Event[V] {
	return Event[V]{Kind: KindFailed, Err: err}
}

func NewCompleted[V any]() Event[V] {
	return Event[V]{Kind: KindCompleted}
}

func NewInterrupted[V any]() Event[V] {
	return Event[V]{Kind: KindInterrupted}
}

func (e Event[V]) IsTerminating() bool {
	return e.Kind != KindValue
}

// Observer receives events. Nil callbacks ignore their event kind.
type Observer[V any] struct {
	Value       func(V)
	Failed      func(error)
	Completed   func()
	Interrupted func()
}

func (o Observer[V]) Send(e Event[V]) {
	switch e.Kind {
	case KindValue:
		if o.Value != nil {
			o.Value(e.Value)
		}
	case KindFailed:
		if o.Failed != nil {
			o.Failed(e.Err)
		}
	case KindCompleted:
		if o.Completed != nil {
			o.Completed()
		}
	case KindInterrupted:
		if o.Interrupted != nil {
			o.Interrupted()
		}
	}
}
