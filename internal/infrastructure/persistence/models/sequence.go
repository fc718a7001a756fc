package models

import (
	"time"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
)

// SequenceCounterModel is the persistence model for a named counter row.
// The key is the primary key: one row per counter, upserted atomically.
type SequenceCounterModel struct {
	Key       string    `gorm:"type:varchar(50);primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}

// ToDomain converts the persistence model to a domain Counter.
func (m *SequenceCounterModel) ToDomain() *sequence.Counter {
	return &sequence.Counter{
		Key:       m.Key,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
