package remote

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

// RetryStore is a decorator that retries transient failures with
// exponential backoff and jitter.
type RetryStore struct {
	inner  Store
	config RetryConfig
}

// WithRetry wraps a Store with retry logic.
func WithRetry(s Store, cfg RetryConfig) Store {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryStore{inner: s, config: cfg}
}

func (r *RetryStore) SetLessonFlag(ctx context.Context, key catalog.SlotKey) error {
	return r.run(ctx, func() error {
		return r.inner.SetLessonFlag(ctx, key)
	})
}

func (r *RetryStore) ProgressSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.run(ctx, func() error {
		var err error
		snap, err = r.inner.ProgressSnapshot(ctx)
		return err
	})
	return snap, err
}

func (r *RetryStore) run(ctx context.Context, call func() error) error {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return err
		}
		// Last attempt: return without sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}
	return lastErr
}

// shouldRetry reports whether err is transient.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrUnavailable
	return errors.As(err, &unavail)
}

// backoff computes the wait duration for the given attempt.
func (r *RetryStore) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
