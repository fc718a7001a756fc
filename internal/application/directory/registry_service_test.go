package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// MockOwnerRepository is a mock implementation of directory.OwnerRepository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) Create(ctx context.Context, owner *directory.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) Save(ctx context.Context, owner *directory.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindByCode(ctx context.Context, code string) (*directory.Owner, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOwnerRepository) FindAll(ctx context.Context, keyword string, page, pageSize int) ([]directory.Owner, int64, error) {
	args := m.Called(ctx, keyword, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]directory.Owner), args.Get(1).(int64), args.Error(2)
}

func (m *MockOwnerRepository) MaxCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPatientRepository is a mock implementation of directory.PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *directory.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Save(ctx context.Context, patient *directory.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByCode(ctx context.Context, code string) (*directory.Patient, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]directory.Patient, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.Patient), args.Error(1)
}

func (m *MockPatientRepository) MaxCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// failingCounters always fails its increments with the given error
type failingCounters struct {
	err error
}

func (c *failingCounters) Increment(context.Context, string) (int64, error) { return 0, c.err }
func (c *failingCounters) Get(context.Context, string) (int64, error)       { return 0, shared.ErrNotFound }

// workingCounters is a plain in-process counter store
type workingCounters struct {
	values map[string]int64
}

func (c *workingCounters) Increment(_ context.Context, key string) (int64, error) {
	if c.values == nil {
		c.values = map[string]int64{}
	}
	c.values[key]++
	return c.values[key], nil
}

func (c *workingCounters) Get(_ context.Context, key string) (int64, error) {
	return c.values[key], nil
}

var errStoreDown = errors.New("connection refused")

func newService(counters sequence.CounterRepository, ownerRepo *MockOwnerRepository, patientRepo *MockPatientRepository) *RegistryService {
	allocator := sequence.NewAllocator(counters, zap.NewNop(),
		sequence.WithTransientChecker(func(err error) bool { return errors.Is(err, errStoreDown) }),
	)
	return NewRegistryService(ownerRepo, patientRepo, allocator, zap.NewNop())
}

func TestRegistryService_RegisterOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("mints sequential owner codes", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		svc := newService(&workingCounters{}, ownerRepo, new(MockPatientRepository))
		ownerRepo.On("Create", ctx, mock.AnythingOfType("*directory.Owner")).Return(nil)

		first, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FirstName: "Maria", LastName: "Santos"})
		require.NoError(t, err)
		second, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FirstName: "Joao", LastName: "Silva"})
		require.NoError(t, err)

		assert.Equal(t, "C00000001", first.Code)
		assert.Equal(t, "C00000002", second.Code)
	})

	t.Run("falls back to max code when allocation is exhausted", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		svc := newService(&failingCounters{err: errStoreDown}, ownerRepo, new(MockPatientRepository))
		ownerRepo.On("MaxCode", ctx).Return("C00000041", nil)
		ownerRepo.On("Create", ctx, mock.AnythingOfType("*directory.Owner")).Return(nil)

		owner, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FirstName: "Maria", LastName: "Santos"})

		require.NoError(t, err)
		assert.Equal(t, "C00000042", owner.Code)
	})

	t.Run("fallback starts at 1 on an empty registry", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		svc := newService(&failingCounters{err: errStoreDown}, ownerRepo, new(MockPatientRepository))
		ownerRepo.On("MaxCode", ctx).Return("", nil)
		ownerRepo.On("Create", ctx, mock.AnythingOfType("*directory.Owner")).Return(nil)

		owner, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FirstName: "Maria", LastName: "Santos"})

		require.NoError(t, err)
		assert.Equal(t, "C00000001", owner.Code)
	})

	t.Run("surfaces exhaustion when the fallback also fails", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		svc := newService(&failingCounters{err: errStoreDown}, ownerRepo, new(MockPatientRepository))
		ownerRepo.On("MaxCode", ctx).Return("", errors.New("also down"))

		_, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FirstName: "Maria", LastName: "Santos"})

		assert.ErrorIs(t, err, sequence.ErrAllocationExhausted)
		ownerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non transient allocator failure does not use the fallback", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		svc := newService(&failingCounters{err: errors.New("relation missing")}, ownerRepo, new(MockPatientRepository))

		_, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FirstName: "Maria", LastName: "Santos"})

		require.Error(t, err)
		ownerRepo.AssertNotCalled(t, "MaxCode", mock.Anything)
	})
}

func TestRegistryService_RegisterPatient(t *testing.T) {
	ctx := context.Background()

	t.Run("mints patient code and checks the owner", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		patientRepo := new(MockPatientRepository)
		svc := newService(&workingCounters{}, ownerRepo, patientRepo)
		ownerID := uuid.New()
		ownerRepo.On("Exists", ctx, ownerID).Return(true, nil)
		patientRepo.On("Create", ctx, mock.AnythingOfType("*directory.Patient")).Return(nil)

		patient, err := svc.RegisterPatient(ctx, RegisterPatientInput{
			OwnerID: ownerID, Name: "Rex", Species: "dog",
		})

		require.NoError(t, err)
		assert.Equal(t, "P00000001", patient.Code)
		assert.Equal(t, ownerID, patient.OwnerID)
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		ownerRepo := new(MockOwnerRepository)
		patientRepo := new(MockPatientRepository)
		svc := newService(&workingCounters{}, ownerRepo, patientRepo)
		ownerID := uuid.New()
		ownerRepo.On("Exists", ctx, ownerID).Return(false, nil)

		_, err := svc.RegisterPatient(ctx, RegisterPatientInput{
			OwnerID: ownerID, Name: "Rex", Species: "dog",
		})

		assert.Error(t, err)
		patientRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
