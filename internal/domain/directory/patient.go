package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// PatientStatus represents the status of a patient record
type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
	PatientStatusDeceased PatientStatus = "deceased"
)

// Patient represents an animal under the clinic's care
type Patient struct {
	shared.BaseAggregateRoot
	Code      string        `gorm:"type:varchar(20);not null;uniqueIndex"`
	OwnerID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Name      string        `gorm:"type:varchar(100);not null"`
	Species   string        `gorm:"type:varchar(100);not null"`
	Breed     string        `gorm:"type:varchar(100)"`
	BirthDate *time.Time    `gorm:""`
	Status    PatientStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// NewPatient creates a new patient carrying an allocator-minted code
func NewPatient(code string, ownerID uuid.UUID, name, species, breed string, birthDate *time.Time) (*Patient, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Patient code cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Patient name cannot be empty")
	}
	if strings.TrimSpace(species) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Patient species cannot be empty")
	}

	patient := &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		OwnerID:           ownerID,
		Name:              strings.TrimSpace(name),
		Species:           strings.TrimSpace(species),
		Breed:             breed,
		BirthDate:         birthDate,
		Status:            PatientStatusActive,
	}

	patient.AddDomainEvent(NewPatientRegisteredEvent(patient))

	return patient, nil
}

// Update updates the patient's basic information
func (p *Patient) Update(name, species, breed string, birthDate *time.Time) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Patient name cannot be empty")
	}
	if strings.TrimSpace(species) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Patient species cannot be empty")
	}
	p.Name = strings.TrimSpace(name)
	p.Species = strings.TrimSpace(species)
	p.Breed = breed
	p.BirthDate = birthDate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkDeceased records that the patient has died
func (p *Patient) MarkDeceased() {
	p.Status = PatientStatusDeceased
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
