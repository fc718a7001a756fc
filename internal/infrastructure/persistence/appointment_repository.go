package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/scheduling"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// GormAppointmentRepository implements scheduling.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// Create persists a new appointment
func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *scheduling.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

// Save updates an existing appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// FindByID finds an appointment by ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var appointment scheduling.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindByPatient lists appointments for a patient, newest first
func (r *GormAppointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	return appointments, err
}

// Ensure GormAppointmentRepository implements AppointmentRepository
var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
