// Package retrier implements exponential backoff with jitter for calls to
// external market data providers.
package retrier

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultAttempts = 4
	defaultBackoff  = 500 * time.Millisecond
	defaultMaxWait  = 10 * time.Second
	jitterFactor    = 0.2
)

// Retrier retries failing calls with exponentially growing waits.
type Retrier struct {
	attempts int
	backoff  time.Duration
	maxWait  time.Duration
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithAttempts sets the total number of attempts (including the first).
func WithAttempts(n int) Option {
	return func(r *Retrier) { r.attempts = n }
}

// WithBackoff sets the initial wait between attempts.
func WithBackoff(d time.Duration) Option {
	return func(r *Retrier) { r.backoff = d }
}

// New creates a Retrier with default settings and optional overrides.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		maxWait:  defaultMaxWait,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, the attempts are exhausted or the context
// is cancelled. The last error is returned.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	wait := r.backoff

	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			jitter := time.Duration((rand.Float64()*2 - 1) * jitterFactor * float64(wait))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait + jitter):
			}
			wait *= 2
			if wait > r.maxWait {
				wait = r.maxWait
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}

// DoWithData runs fn with retries and returns its value.
func DoWithData[T any](ctx context.Context, r *Retrier, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
