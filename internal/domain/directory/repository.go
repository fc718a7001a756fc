package directory

import (
	"context"

	"github.com/google/uuid"
)

// OwnerRepository defines the interface for owner persistence
type OwnerRepository interface {
	// Create persists a new owner
	Create(ctx context.Context, owner *Owner) error

	// Save updates an existing owner
	Save(ctx context.Context, owner *Owner) error

	// FindByID finds an owner by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)

	// FindByCode finds an owner by their assigned code
	FindByCode(ctx context.Context, code string) (*Owner, error)

	// Exists reports whether an owner with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindAll lists owners with keyword search on name/phone/code
	FindAll(ctx context.Context, keyword string, page, pageSize int) ([]Owner, int64, error)

	// MaxCode returns the highest assigned owner code in lexicographic
	// order, or "" when none exist. Serves the degraded allocation path
	MaxCode(ctx context.Context) (string, error)
}

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	// Create persists a new patient
	Create(ctx context.Context, patient *Patient) error

	// Save updates an existing patient
	Save(ctx context.Context, patient *Patient) error

	// FindByID finds a patient by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// FindByCode finds a patient by their assigned code
	FindByCode(ctx context.Context, code string) (*Patient, error)

	// FindByOwner lists all patients belonging to an owner
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Patient, error)

	// MaxCode returns the highest assigned patient code, or "" when none
	// exist. Serves the degraded allocation path
	MaxCode(ctx context.Context) (string, error)
}
