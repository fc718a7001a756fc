package sequence

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// TransientChecker reports whether an error from the counter store is a
// transient serialization/deadlock condition worth retrying. Structural
// failures (bad SQL, closed pool, context cancellation) are not transient.
type TransientChecker func(err error) bool

// Allocator hands out strictly-increasing positive integers per key, safe
// under arbitrary concurrent callers. For any key the multiset of values
// returned across N successful calls is exactly {1..N}: no duplicate, no
// gap, regardless of interleaving.
type Allocator struct {
	counters    CounterRepository
	isTransient TransientChecker
	maxRetries  int
	log         *zap.Logger
}

// AllocatorOption is a functional option for configuring an Allocator.
type AllocatorOption func(*Allocator)

// WithMaxRetries overrides the number of retries after the initial attempt.
func WithMaxRetries(n int) AllocatorOption {
	return func(a *Allocator) {
		a.maxRetries = n
	}
}

// WithTransientChecker sets the store-specific transient error classifier.
func WithTransientChecker(fn TransientChecker) AllocatorOption {
	return func(a *Allocator) {
		a.isTransient = fn
	}
}

// NewAllocator creates an Allocator over the given counter repository.
func NewAllocator(counters CounterRepository, log *zap.Logger, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		counters:    counters,
		isTransient: func(error) bool { return false },
		maxRetries:  3,
		log:         log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Next returns the next value for key: 1 on the first call for an unseen
// key, then one more than the highest value ever returned for that key.
//
// Transient serialization/deadlock failures are retried up to maxRetries
// times with a randomized 10-60ms backoff. Exhausting the retries fails
// with ErrAllocationExhausted; that error is logged as an operational
// alert since it indicates store contention or outage rather than a user
// mistake.
func (a *Allocator) Next(ctx context.Context, key string) (int64, error) {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(retryBackoff()):
			}
		}

		value, err := a.counters.Increment(ctx, key)
		if err == nil {
			return value, nil
		}
		if !a.isTransient(err) {
			return 0, err
		}

		lastErr = err
		a.log.Warn("sequence increment hit transient conflict, retrying",
			zap.String("key", key),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	a.log.Error("sequence allocation exhausted retries",
		zap.String("key", key),
		zap.Int("retries", a.maxRetries),
		zap.Error(lastErr),
	)
	return 0, ErrAllocationExhausted
}

// retryBackoff returns a randomized delay of roughly 10-60ms.
func retryBackoff() time.Duration {
	return time.Duration(10+rand.Intn(50)) * time.Millisecond
}
