package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nitisetu/niti-setu/internal/observability"
)

// Invoker runs model calls behind the pacing gate with bounded retries on
// transient failures. Backoff is linear: step, 2*step, 3*step.
type Invoker struct {
	gate       *Gate
	maxRetries uint64
	step       time.Duration

	// newTimer overrides the backoff timer in tests. Nil means real time.
	newTimer func() backoff.Timer
}

// NewInvoker returns an invoker that allows maxRetries retries after the
// first attempt.
func NewInvoker(gate *Gate, maxRetries int, step time.Duration) *Invoker {
	return &Invoker{gate: gate, maxRetries: uint64(maxRetries), step: step}
}

// stepBackOff yields step, 2*step, 3*step, ... on successive calls.
type stepBackOff struct {
	step time.Duration
	n    int64
}

func (b *stepBackOff) Reset() { b.n = 0 }

func (b *stepBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

// Do runs fn through the gate, retrying transient failures up to the
// configured limit. Every attempt re-acquires the gate, so retries respect
// the pacing floor on top of their backoff delay. Non-transient errors abort
// immediately and are returned unwrapped.
func (v *Invoker) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	work := func() error {
		if err := v.gate.Acquire(ctx); err != nil {
			return backoff.Permanent(err)
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		observability.LoggerFromContext(ctx).Warn("transient model failure, backing off",
			slog.String("operation", op),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
		observability.AIRetriesTotal.WithLabelValues(op).Inc()
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(&stepBackOff{step: v.step}, v.maxRetries), ctx)
	if v.newTimer != nil {
		return backoff.RetryNotifyWithTimer(work, bo, notify, v.newTimer())
	}
	return backoff.RetryNotify(work, bo, notify)
}

// Invoke runs fn through inv and returns its value. The zero value of T is
// returned on error.
func Invoke[T any](ctx context.Context, inv *Invoker, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := inv.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
