package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/delaneyj/bindparty/binding"
	"github.com/delaneyj/bindparty/lifetime"
	"github.com/delaneyj/bindparty/reactive"
	"github.com/delaneyj/bindparty/scheduler"
	"github.com/jamiealquiza/tachymeter"
	"go.uber.org/zap"
)

type scenario struct {
	name  string
	usage string
	run   func(ctx context.Context, env *benchEnv) (*scenarioStats, error)
}

type benchEnv struct {
	iterations int
	logger     *zap.Logger
}

// inline is nil when a scenario does not measure it.
type scenarioStats struct {
	delivered int64
	inline    *int64
	calc      *tachymeter.Metrics
}

var scenarios = []scenario{
	{
		name:  "immediate",
		usage: "setter runs synchronously on the goroutine that sets the property",
		run:   runImmediate,
	},
	{
		name:  "same-queue",
		usage: "scheduled target whose property is set from its own queue, so delivery runs inline",
		run:   runSameQueue,
	},
	{
		name:  "cross-queue",
		usage: "scheduled target whose property is set from another goroutine, so delivery is enqueued",
		run:   runCrossQueue,
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}

func runImmediate(ctx context.Context, env *benchEnv) (*scenarioStats, error) {
	lt, token := lifetime.Make()
	defer token.End()

	// an immediate target always runs the setter inside Set, so only
	// deliveries are counted
	stats := &scenarioStats{}
	target := binding.New(func(int) {
		stats.delivered++
	}, lt)

	property := reactive.NewMutableProperty(0)
	binding.Bind[int](target, property)

	tach := tachymeter.New(&tachymeter.Config{Size: env.iterations})
	for i := 1; i <= env.iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		property.Set(i)
		tach.AddTime(time.Since(start))
	}

	stats.calc = tach.Calc()
	return stats, nil
}

func runSameQueue(ctx context.Context, env *benchEnv) (*scenarioStats, error) {
	q := scheduler.NewQueue("same-queue", scheduler.WithLogger(env.logger))
	defer q.Close(context.Background())

	lt, token := lifetime.Make()
	defer token.End()

	// counts deliveries that ran before Set returned
	var inline int64
	stats := &scenarioStats{inline: &inline}
	var setting atomic.Bool
	target := binding.NewScheduled(func(int) {
		stats.delivered++
		if setting.Load() {
			inline++
		}
	}, q, lt)

	property := reactive.NewMutableProperty(0)
	tach := tachymeter.New(&tachymeter.Config{Size: env.iterations})

	var runErr error
	err := q.Sync(func() {
		binding.Bind[int](target, property)
		for i := 1; i <= env.iterations; i++ {
			if runErr = ctx.Err(); runErr != nil {
				return
			}
			start := time.Now()
			setting.Store(true)
			property.Set(i)
			setting.Store(false)
			tach.AddTime(time.Since(start))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("same-queue: %w", err)
	}
	if runErr != nil {
		return nil, runErr
	}

	stats.calc = tach.Calc()
	return stats, nil
}

func runCrossQueue(ctx context.Context, env *benchEnv) (*scenarioStats, error) {
	q := scheduler.NewQueue("cross-queue", scheduler.WithLogger(env.logger))
	defer q.Close(context.Background())

	lt, token := lifetime.Make()
	defer token.End()

	// the setter only ever runs on the queue's worker, never inline
	var delivered atomic.Int64
	acks := make(chan struct{}, 1)
	target := binding.NewScheduled(func(int) {
		delivered.Add(1)
		acks <- struct{}{}
	}, q, lt)

	property := reactive.NewMutableProperty(0)
	binding.Bind[int](target, property)
	if err := waitAck(ctx, acks); err != nil {
		return nil, fmt.Errorf("initial value: %w", err)
	}

	tach := tachymeter.New(&tachymeter.Config{Size: env.iterations})
	for i := 1; i <= env.iterations; i++ {
		start := time.Now()
		property.Set(i)
		if err := waitAck(ctx, acks); err != nil {
			return nil, fmt.Errorf("set %d: %w", i, err)
		}
		tach.AddTime(time.Since(start))
	}

	return &scenarioStats{
		delivered: delivered.Load(),
		calc:      tach.Calc(),
	}, nil
}

func waitAck(ctx context.Context, acks <-chan struct{}) error {
	select {
	case <-acks:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
