package scheduler

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/delaneyj/bindparty/disposable"
	"github.com/petermattis/goid"
)

type manualTask struct {
	due       time.Duration
	seq       uint64
	fn        func()
	cancelled atomic.Bool
}

// Manual is a virtual-time scheduler for tests. Nothing runs until Run or
// Advance is called, and IsCurrent is true only on the goroutine draining it.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	tasks   []*manualTask
	drainer atomic.Int64
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(fn func()) disposable.Disposable {
	return m.ScheduleAfter(0, fn)
}

func (m *Manual) ScheduleAfter(d time.Duration, fn func()) disposable.Disposable {
	m.mu.Lock()
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	m.mu.Unlock()

	return disposable.Func(func() {
		t.cancelled.Store(true)
	})
}

func (m *Manual) IsCurrent() bool {
	return m.drainer.Load() == goid.Get()
}

// Now is the scheduler's virtual clock.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending counts work that has not run or been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled.Load() {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running everything that becomes due
// in due-time then submission order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	m.drainUntil(target)
}

// Run drains every pending unit of work, advancing the clock as far as needed.
func (m *Manual) Run() {
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return
		}
		latest := m.now
		for _, t := range m.tasks {
			if t.due > latest {
				latest = t.due
			}
		}
		m.mu.Unlock()
		m.drainUntil(latest)
	}
}

func (m *Manual) drainUntil(target time.Duration) {
	prev := m.drainer.Swap(goid.Get())
	defer m.drainer.Store(prev)

	for {
		m.mu.Lock()
		sort.SliceStable(m.tasks, func(i, j int) bool {
			if m.tasks[i].due != m.tasks[j].due {
				return m.tasks[i].due < m.tasks[j].due
			}
			return m.tasks[i].seq < m.tasks[j].seq
		})
		if len(m.tasks) == 0 || m.tasks[0].due > target {
			if target > m.now {
				m.now = target
			}
			m.mu.Unlock()
			return
		}
		t := m.tasks[0]
		m.tasks = m.tasks[1:]
		if t.due > m.now {
			m.now = t.due
		}
		m.mu.Unlock()

		if !t.cancelled.Load() {
			t.fn()
		}
	}
}
