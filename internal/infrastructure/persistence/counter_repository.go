package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
	"github.com/profman23/fluffnwoof-sub005/internal/infrastructure/persistence/models"
)

// GormCounterRepository implements sequence.CounterRepository using a
// single-statement upsert. The read of the current value and the write of
// the incremented one happen inside one INSERT ... ON CONFLICT, so no two
// callers can ever observe the same prior value.
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

const incrementCounterSQL = `
INSERT INTO sequence_counters (key, value, created_at, updated_at)
VALUES (?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (key)
DO UPDATE SET value = sequence_counters.value + 1, updated_at = CURRENT_TIMESTAMP
RETURNING value`

// Increment atomically advances the counter for key and returns the new
// value. The first call for an unseen key returns 1.
func (r *GormCounterRepository) Increment(ctx context.Context, key string) (int64, error) {
	var value int64
	if err := r.db.WithContext(ctx).Raw(incrementCounterSQL, key).Scan(&value).Error; err != nil {
		return 0, err
	}
	return value, nil
}

// Get returns the current value for key without advancing it.
func (r *GormCounterRepository) Get(ctx context.Context, key string) (int64, error) {
	var model models.SequenceCounterModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return model.Value, nil
}

// IsTransientError reports whether err is a serialization failure or
// deadlock that a retry can resolve. Postgres signals these with SQLSTATE
// 40001 and 40P01. The gorm connection runs on pgx, the migrate CLI on
// lib/pq, so both error shapes are recognized.
func IsTransientError(err error) bool {
	return hasSQLState(err, "40001") || hasSQLState(err, "40P01")
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// (SQLSTATE 23505, or the translated gorm sentinel).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return hasSQLState(err, "23505")
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

// Ensure GormCounterRepository implements CounterRepository
var _ sequence.CounterRepository = (*GormCounterRepository)(nil)
