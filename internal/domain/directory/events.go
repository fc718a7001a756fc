package directory

import (
	"github.com/google/uuid"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// OwnerRegisteredEvent is raised when a new owner is registered
type OwnerRegisteredEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
}

// NewOwnerRegisteredEvent creates a new OwnerRegisteredEvent
func NewOwnerRegisteredEvent(owner *Owner) *OwnerRegisteredEvent {
	return &OwnerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OwnerRegistered", owner.ID, "Owner"),
		OwnerID:         owner.ID,
		Code:            owner.Code,
		Name:            owner.FullName(),
	}
}

// PatientRegisteredEvent is raised when a new patient is registered
type PatientRegisteredEvent struct {
	shared.BaseDomainEvent
	PatientID uuid.UUID `json:"patient_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
}

// NewPatientRegisteredEvent creates a new PatientRegisteredEvent
func NewPatientRegisteredEvent(patient *Patient) *PatientRegisteredEvent {
	return &PatientRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PatientRegistered", patient.ID, "Patient"),
		PatientID:       patient.ID,
		OwnerID:         patient.OwnerID,
		Code:            patient.Code,
		Name:            patient.Name,
		Species:         patient.Species,
	}
}
