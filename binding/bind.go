package binding

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/bindparty/disposable"
	"github.com/delaneyj/bindparty/reactive"
	"go.uber.org/zap"
)

var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop()
)

// SetLogger sets the logger used for binding lifecycle events. A nil logger
// restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

func currentLogger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Source is anything bindings can subscribe to: signals, producers and
// properties all qualify.
type Source[V any] interface {
	Subscribe(obs reactive.Observer[V]) disposable.Disposable
}

// Bind forwards every value from source to target until the target's
// lifetime ends, source terminates, or the returned handle is disposed.
//
// Properties deliver their current value before Bind returns. Failures end
// the binding without reaching the target. Binding to a target whose lifetime
// has already ended does nothing.
func Bind[V any](target Target[V], source Source[V]) disposable.Disposable {
	lt := target.Lifetime()
	if lt.HasEnded() {
		return disposable.Nop
	}

	b := &bindingHandle{}
	// set before subscribing so a lifetime ending mid-subscribe is observed
	b.registration.Set(lt.ObserveEnded(func() { b.teardown("lifetime ended") }))

	b.subscription.Set(source.Subscribe(reactive.Observer[V]{
		Value: func(v V) {
			if !b.stopped.Load() {
				target.Consume(v)
			}
		},
		Failed: func(err error) {
			currentLogger().Debug("binding source failed", zap.Error(err))
			b.teardown("source failed")
		},
		Completed:   func() { b.teardown("source completed") },
		Interrupted: func() { b.teardown("source interrupted") },
	}))

	if !b.IsDisposed() {
		currentLogger().Debug("binding established")
	}
	return b
}

type bindingHandle struct {
	stopped      atomic.Bool
	subscription disposable.Serial
	registration disposable.Serial
}

// teardown can re-enter itself: disposing the subscription interrupts the
// observer, which calls teardown again.
func (b *bindingHandle) teardown(reason string) {
	if !b.stopped.CompareAndSwap(false, true) {
		return
	}
	currentLogger().Debug("binding ended", zap.String("reason", reason))
	b.subscription.Dispose()
	b.registration.Dispose()
}

func (b *bindingHandle) Dispose() {
	b.teardown("disposed")
}

func (b *bindingHandle) IsDisposed() bool {
	return b.stopped.Load()
}

// BindProvider binds source to the target provider hands out.
func BindProvider[V any](provider Provider[V], source Source[V]) disposable.Disposable {
	return Bind(provider.BindingTarget(), source)
}
