package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScenarios(t *testing.T) {
	env := &benchEnv{iterations: 50, logger: zap.NewNop()}

	// only same-queue measures inline delivery
	expectedInline := map[string]*int64{
		"same-queue": ptr(int64(50)),
	}

	for _, s := range scenarios {
		s := s
		t.Run(s.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			stats, err := s.run(ctx, env)
			require.NoError(t, err)
			// the bound property's initial value plus every set
			assert.Equal(t, int64(51), stats.delivered)
			assert.Equal(t, expectedInline[s.name], stats.inline)
			assert.Equal(t, 50, stats.calc.Count)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestFindScenario(t *testing.T) {
	s, ok := findScenario("cross-queue")
	assert.True(t, ok)
	assert.Equal(t, "cross-queue", s.name)

	_, ok = findScenario("nope")
	assert.False(t, ok)
}
