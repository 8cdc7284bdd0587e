package reactive

import (
	"sync"

	"github.com/delaneyj/bindparty/disposable"
	"github.com/delaneyj/bindparty/lifetime"
)

// Property is a value that can be read at any time and observed for changes.
type Property[V any] interface {
	Value() V
	Signal() *Signal[V]
	Producer() *Producer[V]
}

// MutableProperty holds a current value and emits every assignment.
//
// It is also a binding target: binding a source to it assigns each value
// until the property is closed.
type MutableProperty[V any] struct {
	mu     sync.RWMutex
	value  V
	closed bool

	signal *Signal[V]
	input  *Input[V]
	lt     *lifetime.Lifetime
	token  *lifetime.Token
}

func NewMutableProperty[V any](initial V) *MutableProperty[V] {
	s, in := Pipe[V]()
	lt, token := lifetime.Make()
	return &MutableProperty[V]{
		value:  initial,
		signal: s,
		input:  in,
		lt:     lt,
		token:  token,
	}
}

func (p *MutableProperty[V]) Value() V {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set assigns v and emits it. Sets after Close are ignored.
func (p *MutableProperty[V]) Set(v V) {
	p.Modify(func(cur *V) { *cur = v })
}

// Modify mutates the current value in place and emits the result.
func (p *MutableProperty[V]) Modify(fn func(*V)) {
	p.signal.send.Lock()
	defer p.signal.send.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	fn(&p.value)
	v := p.value
	p.mu.Unlock()

	p.signal.deliver(NewValue(v))
}

// Swap assigns v and returns the previous value.
func (p *MutableProperty[V]) Swap(v V) (old V) {
	p.Modify(func(cur *V) {
		old = *cur
		*cur = v
	})
	return old
}

// Signal emits every subsequent assignment.
func (p *MutableProperty[V]) Signal() *Signal[V] {
	return p.signal
}

// Producer emits the current value and then every subsequent assignment. No
// assignment can slip in between the two.
func (p *MutableProperty[V]) Producer() *Producer[V] {
	return NewProducer(func(obs Observer[V], lt *lifetime.Lifetime) {
		p.signal.send.Lock()
		defer p.signal.send.Unlock()

		p.mu.RLock()
		v, closed := p.value, p.closed
		p.mu.RUnlock()

		if closed {
			obs.Send(NewValue(v))
			obs.Send(NewCompleted[V]())
			return
		}
		// observe first so a Set made by obs while handling v is delivered
		lt.Add(p.signal.Observe(obs))
		obs.Send(NewValue(v))
	})
}

func (p *MutableProperty[V]) Subscribe(obs Observer[V]) disposable.Disposable {
	return p.Producer().Start(obs)
}

// Lifetime ends when the property is closed.
func (p *MutableProperty[V]) Lifetime() *lifetime.Lifetime {
	return p.lt
}

// Consume assigns v, making the property usable as a binding target.
func (p *MutableProperty[V]) Consume(v V) {
	p.Set(v)
}

// Close completes the property's signal and ends its lifetime.
func (p *MutableProperty[V]) Close() {
	p.signal.send.Lock()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.signal.send.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.signal.deliver(NewCompleted[V]())
	p.signal.send.Unlock()

	p.token.End()
}
