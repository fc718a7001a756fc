// Package directory implements the client registry use cases: owner and
// patient registration with allocator-minted codes.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// RegisterOwnerInput carries the data for a new owner record.
type RegisterOwnerInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// RegisterPatientInput carries the data for a new patient record.
type RegisterPatientInput struct {
	OwnerID   uuid.UUID
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
}

// RegistryService registers owners and patients. Codes come from the
// sequence allocator; when the allocator is exhausted the service falls
// back to deriving the next code from the highest one on record. The
// fallback can hand out a duplicate under concurrency, which the unique
// index on the code column turns into an error instead of silent reuse.
type RegistryService struct {
	ownerRepo   directory.OwnerRepository
	patientRepo directory.PatientRepository
	allocator   *sequence.Allocator
	events      shared.EventBus
	logger      *zap.Logger
}

// RegistryServiceOption is a functional option for RegistryService.
type RegistryServiceOption func(*RegistryService)

// WithEventBus publishes registration events after each new record is
// persisted.
func WithEventBus(bus shared.EventBus) RegistryServiceOption {
	return func(s *RegistryService) {
		s.events = bus
	}
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(
	ownerRepo directory.OwnerRepository,
	patientRepo directory.PatientRepository,
	allocator *sequence.Allocator,
	logger *zap.Logger,
	opts ...RegistryServiceOption,
) *RegistryService {
	s := &RegistryService{
		ownerRepo:   ownerRepo,
		patientRepo: patientRepo,
		allocator:   allocator,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RegistryService) publishEvents(ctx context.Context, aggregate *shared.BaseAggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	aggregate.ClearDomainEvents()
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("publishing registration events", zap.Error(err))
	}
}

// RegisterOwner creates a new owner with a freshly minted code.
func (s *RegistryService) RegisterOwner(ctx context.Context, input RegisterOwnerInput) (*directory.Owner, error) {
	code, err := s.nextCode(ctx, sequence.KeyOwnerCode, sequence.OwnerCodePrefix, s.ownerRepo.MaxCode, sequence.OwnerCode)
	if err != nil {
		return nil, err
	}

	owner, err := directory.NewOwner(code, input.FirstName, input.LastName, input.Phone, input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ownerRepo.Create(ctx, owner); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &owner.BaseAggregateRoot)

	s.logger.Info("owner registered",
		zap.String("code", owner.Code),
		zap.String("owner_id", owner.ID.String()),
	)

	return owner, nil
}

// RegisterPatient creates a new patient with a freshly minted code.
func (s *RegistryService) RegisterPatient(ctx context.Context, input RegisterPatientInput) (*directory.Patient, error) {
	exists, err := s.ownerRepo.Exists(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("checking owner: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Owner %s not found", input.OwnerID))
	}

	code, err := s.nextCode(ctx, sequence.KeyPatientCode, sequence.PatientCodePrefix, s.patientRepo.MaxCode, sequence.PatientCode)
	if err != nil {
		return nil, err
	}

	patient, err := directory.NewPatient(code, input.OwnerID, input.Name, input.Species, input.Breed, input.BirthDate)
	if err != nil {
		return nil, err
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &patient.BaseAggregateRoot)

	s.logger.Info("patient registered",
		zap.String("code", patient.Code),
		zap.String("patient_id", patient.ID.String()),
		zap.String("owner_id", patient.OwnerID.String()),
	)

	return patient, nil
}

// GetOwner loads an owner by ID.
func (s *RegistryService) GetOwner(ctx context.Context, id uuid.UUID) (*directory.Owner, error) {
	return s.ownerRepo.FindByID(ctx, id)
}

// GetPatient loads a patient by ID.
func (s *RegistryService) GetPatient(ctx context.Context, id uuid.UUID) (*directory.Patient, error) {
	return s.patientRepo.FindByID(ctx, id)
}

// ListOwners searches owners by keyword with pagination.
func (s *RegistryService) ListOwners(ctx context.Context, keyword string, page, pageSize int) ([]directory.Owner, int64, error) {
	return s.ownerRepo.FindAll(ctx, keyword, page, pageSize)
}

// ListPatientsByOwner lists all patients belonging to an owner.
func (s *RegistryService) ListPatientsByOwner(ctx context.Context, ownerID uuid.UUID) ([]directory.Patient, error) {
	return s.patientRepo.FindByOwner(ctx, ownerID)
}

// nextCode mints a code from the allocator, falling back to the highest
// code on record plus one when allocation is exhausted.
func (s *RegistryService) nextCode(
	ctx context.Context,
	key, prefix string,
	maxCode func(context.Context) (string, error),
	format func(int64) string,
) (string, error) {
	value, err := s.allocator.Next(ctx, key)
	if err == nil {
		return format(value), nil
	}
	if !errors.Is(err, sequence.ErrAllocationExhausted) {
		return "", err
	}

	s.logger.Warn("sequence allocator exhausted, deriving code from existing records",
		zap.String("key", key),
	)

	highest, maxErr := maxCode(ctx)
	if maxErr != nil {
		return "", err
	}
	if highest == "" {
		return format(1), nil
	}
	last, parseErr := sequence.ParseCodeSuffix(highest, prefix)
	if parseErr != nil {
		return "", err
	}
	return format(last + 1), nil
}
