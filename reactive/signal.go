package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/bindparty/disposable"
)

type signalObserver[V any] struct {
	id     uint64
	obs    Observer[V]
	active *atomic.Bool
}

// Signal is a hot stream of events. Observers are notified in the order they
// were attached, and nothing is delivered after the first terminal event.
type Signal[V any] struct {
	send reentrantMutex

	mu         sync.Mutex
	nextID     uint64
	observers  []signalObserver[V]
	terminated bool
}

// Input is the sending side of a Signal created by Pipe.
type Input[V any] struct {
	s *Signal[V]
}

// Pipe returns a signal and the input that drives it.
func Pipe[V any]() (*Signal[V], *Input[V]) {
	s := &Signal[V]{}
	return s, &Input[V]{s: s}
}

// Observe attaches obs. Observing a signal that has already terminated
// delivers an interrupted event immediately.
func (s *Signal[V]) Observe(obs Observer[V]) disposable.Disposable {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		obs.Send(NewInterrupted[V]())
		return disposable.Nop
	}
	s.nextID++
	id := s.nextID
	active := &atomic.Bool{}
	active.Store(true)
	s.observers = append(s.observers, signalObserver[V]{id: id, obs: obs, active: active})
	s.mu.Unlock()

	return disposable.Func(func() {
		active.Store(false)
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	})
}

// Subscribe is Observe under the name bindings look for.
func (s *Signal[V]) Subscribe(obs Observer[V]) disposable.Disposable {
	return s.Observe(obs)
}

func (s *Signal[V]) IsTerminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// deliver must be called with s.send held.
func (s *Signal[V]) deliver(e Event[V]) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	observers := s.observers
	if e.IsTerminating() {
		s.terminated = true
		s.observers = nil
	} else {
		observers = append([]signalObserver[V](nil), observers...)
	}
	s.mu.Unlock()

	for _, o := range observers {
		if o.active.Load() {
			o.obs.Send(e)
		}
	}
}

func (in *Input[V]) SendEvent(e Event[V]) {
	in.s.send.Lock()
	defer in.s.send.Unlock()
	in.s.deliver(e)
}

func (in *Input[V]) Send(v V) {
	in.SendEvent(NewValue(v))
}

func (in *Input[V]) Fail(err error) {
	in.SendEvent(NewFailed[V](err))
}

func (in *Input[V]) Complete() {
	in.SendEvent(NewCompleted[V]())
}

func (in *Input[V]) Interrupt() {
	in.SendEvent(NewInterrupted[V]())
}
