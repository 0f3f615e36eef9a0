// Package ai provides the shared resilience layer in front of the model
// provider: request pacing, transient-failure classification, and retries.
package ai

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum wall-clock gap between consecutive model requests,
// process-wide. Callers block until the gap since the last granted request has
// elapsed. Grants are not FIFO; the pacing floor is the only guarantee.
type Gate struct {
	mu   sync.Mutex
	last time.Time

	gap   time.Duration
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewGate returns a gate with the given minimum gap.
func NewGate(gap time.Duration) *Gate {
	return &Gate{gap: gap, now: time.Now, sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Acquire blocks until the gap since the last grant has passed, then records
// the grant. Returns early with the context error if ctx is done first.
func (g *Gate) Acquire(ctx context.Context) error {
	g.mu.Lock()
	wait := g.gap - g.now().Sub(g.last)
	g.mu.Unlock()

	if wait > 0 {
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}

	g.mu.Lock()
	g.last = g.now()
	g.mu.Unlock()
	return nil
}
