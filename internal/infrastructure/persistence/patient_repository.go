package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// GormPatientRepository implements directory.PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// Create persists a new patient
func (r *GormPatientRepository) Create(ctx context.Context, patient *directory.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

// Save updates an existing patient
func (r *GormPatientRepository) Save(ctx context.Context, patient *directory.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

// FindByID finds a patient by ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Patient, error) {
	var patient directory.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// FindByCode finds a patient by their assigned code
func (r *GormPatientRepository) FindByCode(ctx context.Context, code string) (*directory.Patient, error) {
	var patient directory.Patient
	if err := r.db.WithContext(ctx).First(&patient, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// FindByOwner lists all patients belonging to an owner
func (r *GormPatientRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]directory.Patient, error) {
	var patients []directory.Patient
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("code ASC").
		Find(&patients).Error
	return patients, err
}

// MaxCode returns the highest assigned patient code, or "" when none exist
func (r *GormPatientRepository) MaxCode(ctx context.Context) (string, error) {
	var code *string
	err := r.db.WithContext(ctx).
		Model(&directory.Patient{}).
		Select("MAX(code)").
		Scan(&code).Error
	if err != nil || code == nil {
		return "", err
	}
	return *code, nil
}

// Ensure GormPatientRepository implements PatientRepository
var _ directory.PatientRepository = (*GormPatientRepository)(nil)
