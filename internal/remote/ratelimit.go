package remote

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

// RateLimitedStore throttles flag writes so repeated verification attempts
// do not amplify into a burst of remote writes. Reads pass through.
type RateLimitedStore struct {
	inner   Store
	limiter *rate.Limiter
}

// WithRateLimit wraps s so that SetLessonFlag runs at most perSecond times a
// second with the given burst. A non-positive rate returns s unchanged.
func WithRateLimit(s Store, perSecond float64, burst int) Store {
	if perSecond <= 0 {
		return s
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedStore{inner: s, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *RateLimitedStore) SetLessonFlag(ctx context.Context, key catalog.SlotKey) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for write slot: %w", err)
	}
	return r.inner.SetLessonFlag(ctx, key)
}

func (r *RateLimitedStore) ProgressSnapshot(ctx context.Context) (Snapshot, error) {
	return r.inner.ProgressSnapshot(ctx)
}
