// Package sequence provides durable, collision-free monotonic counters and
// the human-readable code formats built on top of them.
package sequence

import (
	"context"
	"time"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// Well-known counter keys. Invoice counters are day-scoped and derived
// via InvoiceCounterKey instead.
const (
	KeyOwnerCode   = "customer_code"
	KeyPatientCode = "pet_code"
)

// Counter is a named, durable, monotonically-increasing integer source.
// One row exists per logical counter; rows are created lazily on first
// allocation and never deleted in normal operation.
type Counter struct {
	Key       string
	Value     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CounterRepository is the persistence port for counters.
//
// Increment must be a single indivisible insert-or-increment: the read of
// the current value and the write of the incremented value happen as one
// atomic operation, so no two concurrent callers can observe and increment
// the same prior value. A read-then-write implementation is not a valid
// implementation of this interface.
type CounterRepository interface {
	// Increment atomically advances the counter for key and returns the
	// new value. The first call for an unseen key returns 1.
	Increment(ctx context.Context, key string) (int64, error)

	// Get returns the current value for key without advancing it.
	// Returns shared.ErrNotFound if the counter has never been incremented.
	Get(ctx context.Context, key string) (int64, error)
}

// ErrAllocationExhausted is returned when the atomic increment failed after
// all retries. It signals backing-store contention or outage rather than a
// caller mistake and should be surfaced, never swallowed.
var ErrAllocationExhausted = shared.NewDomainError("ALLOCATION_EXHAUSTED", "Sequence allocation failed after retries")
