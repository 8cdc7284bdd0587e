package disposable

import (
	"sync"
	"sync/atomic"
)

// Disposable is a handle to some work or registration that can be torn down.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

type nop struct{}

func (nop) Dispose()         {}
func (nop) IsDisposed() bool { return true }

// Nop is a disposable that has always been disposed.
var Nop Disposable = nop{}

type funcDisposable struct {
	fn       func()
	disposed atomic.Bool
}

// Func returns a disposable that runs fn the first time it is disposed.
func Func(fn func()) Disposable {
	return &funcDisposable{fn: fn}
}

func (d *funcDisposable) Dispose() {
	if !d.disposed.CompareAndSwap(false, true) {
		return
	}
	if d.fn != nil {
		d.fn()
		d.fn = nil
	}
}

func (d *funcDisposable) IsDisposed() bool {
	return d.disposed.Load()
}

// Composite disposes all of its children, in the order they were added.
type Composite struct {
	mu       sync.Mutex
	children []Disposable
	disposed bool
}

func NewComposite(children ...Disposable) *Composite {
	c := &Composite{}
	for _, d := range children {
		c.Add(d)
	}
	return c
}

// Add appends d. When c is already disposed, d is disposed immediately.
func (c *Composite) Add(d Disposable) {
	if d == nil {
		return
	}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()
		return
	}
	c.children = append(c.children, d)
	c.mu.Unlock()
}

// AddFunc is shorthand for c.Add(Func(fn)).
func (c *Composite) AddFunc(fn func()) {
	c.Add(Func(fn))
}

func (c *Composite) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	children := c.children
	c.children = nil
	c.mu.Unlock()

	for _, d := range children {
		d.Dispose()
	}
}

func (c *Composite) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Serial holds at most one inner disposable. Replacing the inner disposable
// disposes the previous one.
type Serial struct {
	mu       sync.Mutex
	inner    Disposable
	disposed bool
}

func (s *Serial) Set(d Disposable) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return
	}
	prev := s.inner
	s.inner = d
	s.mu.Unlock()

	if prev != nil {
		prev.Dispose()
	}
}

func (s *Serial) Inner() Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner
}

func (s *Serial) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	inner := s.inner
	s.inner = nil
	s.mu.Unlock()

	if inner != nil {
		inner.Dispose()
	}
}

func (s *Serial) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
