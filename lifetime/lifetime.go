// Package lifetime provides tokens that decide how long bindings stay alive,
// and read-only views that let bindings observe the end of that span.
package lifetime

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/bindparty/disposable"
)

type phase int32

const (
	alive phase = iota
	ending
	ended
)

type observer struct {
	id uint64
	fn func()
}

// state is shared between a Token and every Lifetime created from it.
type state struct {
	phase  atomic.Int32
	mu     sync.Mutex
	nextID uint64
	obs    []observer
	done   chan struct{}
}

func newState() *state {
	return &state{done: make(chan struct{})}
}

func (s *state) hasEnded() bool {
	return phase(s.phase.Load()) != alive
}

func (s *state) end() {
	if !s.phase.CompareAndSwap(int32(alive), int32(ending)) {
		return
	}

	s.mu.Lock()
	obs := s.obs
	s.obs = nil
	s.mu.Unlock()

	defer func() {
		s.phase.Store(int32(ended))
		close(s.done)
	}()

	// callbacks may call End again, which sees ending and returns
	runAll(obs)
}

// runAll calls every fn in order. A panicking fn does not stop the rest; the
// panic is raised again once they have run.
func runAll(obs []observer) {
	for i, o := range obs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					runAll(obs[i+1:])
					panic(r)
				}
			}()
			o.fn()
		}()
	}
}

func (s *state) observeEnded(fn func()) disposable.Disposable {
	s.mu.Lock()
	if s.hasEnded() {
		s.mu.Unlock()
		fn()
		return disposable.Nop
	}
	s.nextID++
	id := s.nextID
	s.obs = append(s.obs, observer{id: id, fn: fn})
	s.mu.Unlock()

	return disposable.Func(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.obs {
			if o.id == id {
				s.obs = append(s.obs[:i], s.obs[i+1:]...)
				return
			}
		}
	})
}

// Token owns the decision of when a Lifetime ends. Keep it with whatever
// object defines how long bindings should live and call End when that
// object goes away.
type Token struct {
	s *state
}

func NewToken() *Token {
	return &Token{s: newState()}
}

// End transitions the token to ended and runs every registered callback once,
// in registration order, on the calling goroutine. Subsequent calls are no-ops.
// If a callback panics the remaining callbacks still run, the lifetime still
// ends, and End panics afterwards.
func (t *Token) End() {
	t.s.end()
}

// Lifetime is a read-only view on a Token.
type Lifetime struct {
	s *state
}

func New(token *Token) *Lifetime {
	return &Lifetime{s: token.s}
}

// Make returns a fresh lifetime together with the token that ends it.
func Make() (*Lifetime, *Token) {
	token := NewToken()
	return New(token), token
}

// Empty is a lifetime that has already ended.
var Empty = func() *Lifetime {
	token := NewToken()
	token.End()
	return New(token)
}()

func (l *Lifetime) HasEnded() bool {
	return l.s.hasEnded()
}

// ObserveEnded registers fn to run when the lifetime ends. If it has already
// ended, fn runs inline before ObserveEnded returns. Disposing the result
// unregisters fn.
func (l *Lifetime) ObserveEnded(fn func()) disposable.Disposable {
	return l.s.observeEnded(fn)
}

// Add ties d to the lifetime: d is disposed when the lifetime ends.
func (l *Lifetime) Add(d disposable.Disposable) {
	if d == nil {
		return
	}
	l.s.observeEnded(d.Dispose)
}

// Ended returns a channel closed once every end-of-life callback has run.
func (l *Lifetime) Ended() <-chan struct{} {
	return l.s.done
}
