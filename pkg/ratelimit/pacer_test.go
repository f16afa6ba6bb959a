package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_SpacesCalls(t *testing.T) {
	pacer := NewPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, pacer.Wait(ctx))
	}
	elapsed := time.Since(start)

	// First call is free, the next two wait at least 0.8 of the interval.
	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
}

func TestPacer_CancelledContext(t *testing.T) {
	pacer := NewPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, pacer.Wait(ctx)) // immediate slot
	cancel()
	assert.ErrorIs(t, pacer.Wait(ctx), context.Canceled)
}
