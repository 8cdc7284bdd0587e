package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/delaneyj/bindparty/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueue(t *testing.T, label string) *scheduler.Queue {
	q := scheduler.NewQueue(label)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, q.Close(ctx))
	})
	return q
}

// should run work inline
func TestImmediate(t *testing.T) {
	ran := false
	d := scheduler.Immediate.Schedule(func() { ran = true })
	assert.True(t, ran)
	assert.True(t, d.IsDisposed())
	assert.True(t, scheduler.Immediate.IsCurrent())
}

// should run work in FIFO order on a single context
func TestQueueFIFO(t *testing.T) {
	q := newQueue(t, "fifo")

	var (
		mu    sync.Mutex
		order []int
	)
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		i := i
		q.Schedule(func() {
			assert.True(t, q.IsCurrent())
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			if i == 99 {
				close(done)
			}
		})
	}
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

// should not report the caller as current
func TestQueueIsCurrentFromOutside(t *testing.T) {
	q := newQueue(t, "outside")
	assert.False(t, q.IsCurrent())
}

// should skip cancelled work
func TestQueueCancel(t *testing.T) {
	q := newQueue(t, "cancel")

	release := make(chan struct{})
	q.Schedule(func() { <-release })

	ran := false
	d := q.Schedule(func() { ran = true })
	d.Dispose()
	close(release)

	require.NoError(t, q.Sync(func() {}))
	assert.False(t, ran)
}

// should run a sync block on the caller while occupying the queue
func TestQueueSync(t *testing.T) {
	q := newQueue(t, "sync")

	var inside bool
	require.NoError(t, q.Sync(func() {
		inside = q.IsCurrent()
	}))
	assert.True(t, inside)
	assert.False(t, q.IsCurrent())
}

// should not deadlock when sync is nested on the same queue
func TestQueueNestedSync(t *testing.T) {
	q := newQueue(t, "nested")

	depth := 0
	require.NoError(t, q.Sync(func() {
		depth++
		require.NoError(t, q.Sync(func() {
			depth++
		}))
	}))
	assert.Equal(t, 2, depth)

	done := make(chan struct{})
	q.Schedule(func() {
		assert.NoError(t, q.Sync(func() { depth++ }))
		close(done)
	})
	<-done
	assert.Equal(t, 3, depth)
}

// should drain queued work and then reject new work after close
func TestQueueClose(t *testing.T) {
	q := scheduler.NewQueue("close")

	count := 0
	for i := 0; i < 10; i++ {
		q.Schedule(func() { count++ })
	}
	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, 10, count)

	d := q.Schedule(func() { count++ })
	assert.True(t, d.IsDisposed())
	assert.ErrorIs(t, q.Sync(func() {}), scheduler.ErrClosed)
	assert.Equal(t, 10, count)
	assert.NoError(t, q.Close(context.Background()))
}

// should give queues with the same label different ids
func TestQueueID(t *testing.T) {
	a := newQueue(t, "same")
	b := newQueue(t, "same")
	assert.Equal(t, "same", a.Label())
	assert.NotEqual(t, a.ID(), b.ID())
}

// should run delayed work after the delay
func TestQueueScheduleAfter(t *testing.T) {
	q := newQueue(t, "after")

	fired := make(chan struct{})
	q.ScheduleAfter(10*time.Millisecond, func() { close(fired) })

	cancelled := false
	d := q.ScheduleAfter(10*time.Millisecond, func() { cancelled = true })
	d.Dispose()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("delayed work never ran")
	}
	require.NoError(t, q.Sync(func() {}))
	assert.False(t, cancelled)
}

// should return the same main queue every time
func TestMainQueue(t *testing.T) {
	assert.Same(t, scheduler.Main(), scheduler.Main())
	assert.Equal(t, "main", scheduler.Main().Label())
}

// should run inline when already on the target context
func TestReentrancySafeInline(t *testing.T) {
	q := newQueue(t, "reentrant")
	safe := scheduler.ReentrancySafe(q)

	var inline bool
	require.NoError(t, q.Sync(func() {
		ran := false
		d := safe.Schedule(func() { ran = true })
		inline = ran && d.IsDisposed()
	}))
	assert.True(t, inline)
}

// should enqueue when called from another context
func TestReentrancySafeEnqueue(t *testing.T) {
	q := newQueue(t, "enqueue")
	safe := scheduler.ReentrancySafe(q)

	release := make(chan struct{})
	q.Schedule(func() { <-release })

	ran := make(chan bool, 1)
	safe.Schedule(func() { ran <- q.IsCurrent() })
	assert.Len(t, ran, 0)
	close(release)
	assert.True(t, <-ran)
}

// should not deadlock when work on the queue schedules onto the same queue
func TestReentrancySafeFromWorker(t *testing.T) {
	q := newQueue(t, "worker")
	safe := scheduler.ReentrancySafe(q)

	order := []string{}
	require.NoError(t, q.Sync(func() {
		safe.Schedule(func() { order = append(order, "inner") })
		order = append(order, "outer")
	}))
	assert.Equal(t, []string{"inner", "outer"}, order)
	assert.Equal(t, safe, scheduler.ReentrancySafe(safe))
}

// should only run manual work when drained
func TestManual(t *testing.T) {
	m := scheduler.NewManual()
	order := []string{}

	m.ScheduleAfter(2*time.Second, func() { order = append(order, "late") })
	m.Schedule(func() {
		assert.True(t, m.IsCurrent())
		order = append(order, "first")
	})
	m.Schedule(func() { order = append(order, "second") })
	d := m.Schedule(func() { order = append(order, "cancelled") })
	d.Dispose()

	assert.False(t, m.IsCurrent())
	assert.Equal(t, 3, m.Pending())
	assert.Empty(t, order)

	m.Advance(time.Second)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, time.Second, m.Now())

	m.Run()
	assert.Equal(t, []string{"first", "second", "late"}, order)
	assert.Equal(t, 2*time.Second, m.Now())
	assert.Equal(t, 0, m.Pending())
}
