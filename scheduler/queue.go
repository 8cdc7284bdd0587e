package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/bindparty/disposable"
	"github.com/petermattis/goid"
	"go.uber.org/zap"
)

var queueSeq atomic.Uint64

type queueTask struct {
	fn        func()
	cancelled atomic.Bool
}

type queueConfig struct {
	logger *zap.Logger
}

type QueueOption func(*queueConfig)

// WithLogger sets the logger used for queue lifecycle events.
func WithLogger(logger *zap.Logger) QueueOption {
	return func(c *queueConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Queue is a serial execution context backed by a single worker goroutine.
//
// Work runs one unit at a time in submission order. Besides the worker, a
// goroutine inside Sync is also considered to be on the queue for as long as
// its block runs.
type Queue struct {
	label  string
	id     uint64
	logger *zap.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []*queueTask
	closed bool

	worker  atomic.Int64
	syncers mapset.Set[int64]
	done    chan struct{}
}

func NewQueue(label string, opts ...QueueOption) *Queue {
	cfg := queueConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	seq := queueSeq.Add(1)
	q := &Queue{
		label:   label,
		id:      xxhash.Sum64String(fmt.Sprintf("%s#%d", label, seq)),
		logger:  cfg.logger.With(zap.String("queue", label)),
		syncers: mapset.NewSet[int64](),
		done:    make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	started := make(chan struct{})
	go q.run(started)
	<-started

	q.logger.Debug("queue started", zap.Uint64("id", q.id))
	return q
}

func (q *Queue) Label() string { return q.label }

// ID identifies the queue. It is stable for the life of the queue and distinct
// between queues that share a label.
func (q *Queue) ID() uint64 { return q.id }

func (q *Queue) run(started chan<- struct{}) {
	q.worker.Store(goid.Get())
	close(started)
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		t := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		if !t.cancelled.Load() {
			t.fn()
		}
	}
}

func (q *Queue) enqueue(t *queueTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.tasks = append(q.tasks, t)
	q.cond.Signal()
	return nil
}

func (q *Queue) Schedule(fn func()) disposable.Disposable {
	t := &queueTask{fn: fn}
	if err := q.enqueue(t); err != nil {
		q.logger.Warn("dropping work scheduled on closed queue")
		return disposable.Nop
	}
	return disposable.Func(func() {
		t.cancelled.Store(true)
	})
}

// ScheduleAfter enqueues fn once d has elapsed.
func (q *Queue) ScheduleAfter(d time.Duration, fn func()) disposable.Disposable {
	inner := &disposable.Serial{}
	timer := time.AfterFunc(d, func() {
		inner.Set(q.Schedule(fn))
	})
	return disposable.NewComposite(
		disposable.Func(func() { timer.Stop() }),
		inner,
	)
}

func (q *Queue) IsCurrent() bool {
	id := goid.Get()
	return id == q.worker.Load() || q.syncers.Contains(id)
}

// Sync runs fn on the queue's execution context and waits for it to finish.
//
// fn runs on the calling goroutine while the worker is held, so the queue is
// exclusively occupied and IsCurrent reports true inside fn. Calling Sync from
// a goroutine already on the queue runs fn inline.
func (q *Queue) Sync(fn func()) error {
	if q.IsCurrent() {
		fn()
		return nil
	}

	entered := make(chan struct{})
	exited := make(chan struct{})
	err := q.enqueue(&queueTask{fn: func() {
		close(entered)
		<-exited
	}})
	if err != nil {
		return fmt.Errorf("sync on queue %q: %w", q.label, err)
	}

	<-entered
	id := goid.Get()
	q.syncers.Add(id)
	defer func() {
		q.syncers.Remove(id)
		close(exited)
	}()
	fn()
	return nil
}

// Close stops the queue from accepting work. Work already enqueued still
// runs; Close waits for it unless ctx is done first. Close is idempotent.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	wasClosed := q.closed
	q.closed = true
	pending := len(q.tasks)
	q.cond.Broadcast()
	q.mu.Unlock()

	if !wasClosed {
		q.logger.Debug("queue closing", zap.Int("pending", pending))
	}

	if q.IsCurrent() {
		// the worker cannot wait for itself
		return nil
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("close queue %q: %w", q.label, ctx.Err())
	}
}

var (
	mainOnce  sync.Once
	mainQueue *Queue
)

// Main returns the process-wide queue used for work that must run on one
// designated context, the way UI state is only mutated from a UI thread.
func Main() *Queue {
	mainOnce.Do(func() {
		mainQueue = NewQueue("main")
	})
	return mainQueue
}
