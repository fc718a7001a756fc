// Package scheduling holds the clinic's appointment book.
package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// IsValid checks if the status is a valid AppointmentStatus
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true if the appointment can no longer change state
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// Appointment represents a scheduled visit for a patient
type Appointment struct {
	shared.BaseAggregateRoot
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ScheduledAt time.Time         `gorm:"not null;index"`
	Reason      string            `gorm:"type:text"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED'"`
	CompletedAt *time.Time        `gorm:""`
}

// TableName returns the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment schedules a new visit
func NewAppointment(patientID, ownerID uuid.UUID, scheduledAt time.Time, reason string) (*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Patient ID cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Scheduled time is required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Appointment reason cannot be empty")
	}

	return &Appointment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PatientID:         patientID,
		OwnerID:           ownerID,
		ScheduledAt:       scheduledAt,
		Reason:            reason,
		Status:            AppointmentStatusScheduled,
	}, nil
}

// Start marks the appointment as in progress
func (a *Appointment) Start() error {
	if a.Status != AppointmentStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled appointments can be started")
	}
	a.Status = AppointmentStatusInProgress
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Complete marks the appointment as completed. Invoked when the linked
// invoice is finalized; completing a terminal appointment is an error.
func (a *Appointment) Complete() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Appointment is already closed")
	}
	now := time.Now()
	a.Status = AppointmentStatusCompleted
	a.CompletedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// Cancel cancels a not-yet-completed appointment
func (a *Appointment) Cancel() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Appointment is already closed")
	}
	a.Status = AppointmentStatusCancelled
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// Create persists a new appointment
	Create(ctx context.Context, appointment *Appointment) error

	// Save updates an existing appointment
	Save(ctx context.Context, appointment *Appointment) error

	// FindByID finds an appointment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindByPatient lists appointments for a patient
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
}
