package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a gate without real sleeping. Sleeps advance the clock.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newGateWithClock(gap time.Duration) (*Gate, *fakeClock) {
	c := &fakeClock{now: time.Unix(1000, 0)}
	g := NewGate(gap)
	g.now = func() time.Time { return c.now }
	g.sleep = func(_ context.Context, d time.Duration) error {
		c.sleeps = append(c.sleeps, d)
		c.now = c.now.Add(d)
		return nil
	}
	return g, c
}

func TestGateFirstAcquireDoesNotWait(t *testing.T) {
	g, c := newGateWithClock(2 * time.Second)
	require.NoError(t, g.Acquire(context.Background()))
	assert.Empty(t, c.sleeps)
}

func TestGateEnforcesMinimumGap(t *testing.T) {
	g, c := newGateWithClock(2 * time.Second)
	require.NoError(t, g.Acquire(context.Background()))

	c.now = c.now.Add(500 * time.Millisecond)
	require.NoError(t, g.Acquire(context.Background()))

	require.Len(t, c.sleeps, 1)
	assert.Equal(t, 1500*time.Millisecond, c.sleeps[0])
}

func TestGateNoWaitAfterGapElapsed(t *testing.T) {
	g, c := newGateWithClock(2 * time.Second)
	require.NoError(t, g.Acquire(context.Background()))

	c.now = c.now.Add(3 * time.Second)
	require.NoError(t, g.Acquire(context.Background()))
	assert.Empty(t, c.sleeps)
}

func TestGateCancelledContext(t *testing.T) {
	g, _ := newGateWithClock(2 * time.Second)
	g.sleep = sleepContext
	require.NoError(t, g.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
