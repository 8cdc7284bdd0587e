package reactive

import (
	"sync/atomic"

	"github.com/delaneyj/bindparty/disposable"
	"github.com/delaneyj/bindparty/lifetime"
	"github.com/delaneyj/bindparty/scheduler"
)

// StartFunc does a producer's work for one observer. Work should stop once lt
// ends; anything added to lt is disposed at that point.
type StartFunc[V any] func(obs Observer[V], lt *lifetime.Lifetime)

// Producer is a cold stream: every Start runs the work again for a new
// observer.
type Producer[V any] struct {
	start StartFunc[V]
}

func NewProducer[V any](start StartFunc[V]) *Producer[V] {
	return &Producer[V]{start: start}
}

type gate[V any] struct {
	obs   Observer[V]
	token *lifetime.Token
	done  atomic.Bool
}

func (g *gate[V]) send(e Event[V]) {
	if g.done.Load() {
		return
	}
	if !e.IsTerminating() {
		g.obs.Send(e)
		return
	}
	if !g.done.CompareAndSwap(false, true) {
		return
	}
	g.obs.Send(e)
	g.token.End()
}

func (g *gate[V]) observer() Observer[V] {
	return Observer[V]{
		Value:       func(v V) { g.send(NewValue(v)) },
		Failed:      func(err error) { g.send(NewFailed[V](err)) },
		Completed:   func() { g.send(NewCompleted[V]()) },
		Interrupted: func() { g.send(NewInterrupted[V]()) },
	}
}

// Start runs the producer for obs. Disposing the result interrupts obs, unless
// it has already terminated, and ends the work's lifetime.
func (p *Producer[V]) Start(obs Observer[V]) disposable.Disposable {
	lt, token := lifetime.Make()
	g := &gate[V]{obs: obs, token: token}
	d := disposable.Func(func() {
		if g.done.CompareAndSwap(false, true) {
			obs.Send(NewInterrupted[V]())
		}
		token.End()
	})
	p.start(g.observer(), lt)
	return d
}

func (p *Producer[V]) Subscribe(obs Observer[V]) disposable.Disposable {
	return p.Start(obs)
}

// StartOn returns a producer whose work begins on s.
func (p *Producer[V]) StartOn(s scheduler.Scheduler) *Producer[V] {
	return NewProducer(func(obs Observer[V], lt *lifetime.Lifetime) {
		lt.Add(s.Schedule(func() {
			if lt.HasEnded() {
				return
			}
			lt.Add(p.Start(obs))
		}))
	})
}

// ObserveOn returns a producer that forwards every event through s, keeping
// their order.
func (p *Producer[V]) ObserveOn(s scheduler.Scheduler) *Producer[V] {
	return NewProducer(func(obs Observer[V], lt *lifetime.Lifetime) {
		forward := func(e Event[V]) {
			s.Schedule(func() { obs.Send(e) })
		}
		lt.Add(p.Start(Observer[V]{
			Value:       func(v V) { forward(NewValue(v)) },
			Failed:      func(err error) { forward(NewFailed[V](err)) },
			Completed:   func() { forward(NewCompleted[V]()) },
			Interrupted: func() { forward(NewInterrupted[V]()) },
		}))
	})
}

// Just emits values in order and then completes.
func Just[V any](values ...V) *Producer[V] {
	return NewProducer(func(obs Observer[V], lt *lifetime.Lifetime) {
		for _, v := range values {
			if lt.HasEnded() {
				return
			}
			obs.Send(NewValue(v))
		}
		obs.Send(NewCompleted[V]())
	})
}

// Empty completes immediately.
func Empty[V any]() *Producer[V] {
	return Just[V]()
}

// Fail fails immediately with err.
func Fail[V any](err error) *Producer[V] {
	return NewProducer(func(obs Observer[V], _ *lifetime.Lifetime) {
		obs.Send(NewFailed[V](err))
	})
}

// Never emits nothing and never terminates.
func Never[V any]() *Producer[V] {
	return NewProducer(func(Observer[V], *lifetime.Lifetime) {})
}

// FromSignal returns a producer that observes s for each start.
func FromSignal[V any](s *Signal[V]) *Producer[V] {
	return NewProducer(func(obs Observer[V], lt *lifetime.Lifetime) {
		lt.Add(s.Observe(obs))
	})
}
