// Package scheduling implements the appointment book use cases.
package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/scheduling"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// ScheduleAppointmentInput carries the data for a new appointment.
type ScheduleAppointmentInput struct {
	PatientID   uuid.UUID
	ScheduledAt time.Time
	Reason      string
}

// AppointmentService schedules and manages clinic appointments.
type AppointmentService struct {
	appointmentRepo scheduling.AppointmentRepository
	patientRepo     directory.PatientRepository
	logger          *zap.Logger
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(
	appointmentRepo scheduling.AppointmentRepository,
	patientRepo directory.PatientRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		logger:          logger,
	}
}

// Schedule books a new appointment for a patient. The owner is taken
// from the patient record.
func (s *AppointmentService) Schedule(ctx context.Context, input ScheduleAppointmentInput) (*scheduling.Appointment, error) {
	patient, err := s.patientRepo.FindByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Patient %s not found", input.PatientID))
	}

	appointment, err := scheduling.NewAppointment(patient.ID, patient.OwnerID, input.ScheduledAt, input.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("appointment scheduled",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("patient_id", patient.ID.String()),
		zap.Time("scheduled_at", appointment.ScheduledAt),
	)

	return appointment, nil
}

// GetByID loads an appointment by ID.
func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	return s.appointmentRepo.FindByID(ctx, id)
}

// ListByPatient lists appointments for a patient.
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]scheduling.Appointment, error) {
	return s.appointmentRepo.FindByPatient(ctx, patientID)
}

// Start marks an appointment as in progress.
func (s *AppointmentService) Start(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	return s.transition(ctx, id, (*scheduling.Appointment).Start)
}

// Cancel cancels a not-yet-completed appointment.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	return s.transition(ctx, id, (*scheduling.Appointment).Cancel)
}

func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, fn func(*scheduling.Appointment) error) (*scheduling.Appointment, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(appointment); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}
