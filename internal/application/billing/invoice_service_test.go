package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/scheduling"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, appointmentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) CountPaymentHistory(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// MockAppointmentRepository is a mock implementation of scheduling.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

// memoryCounters is an in-process counter store backing the allocator in tests
type memoryCounters struct {
	values map[string]int64
}

func (c *memoryCounters) Increment(_ context.Context, key string) (int64, error) {
	if c.values == nil {
		c.values = map[string]int64{}
	}
	c.values[key]++
	return c.values[key], nil
}

func (c *memoryCounters) Get(_ context.Context, key string) (int64, error) {
	return c.values[key], nil
}

type serviceFixture struct {
	service     *InvoiceService
	invoiceRepo *MockInvoiceRepository
	ownerRepo   *MockOwnerRepository
	apptRepo    *MockAppointmentRepository
}

func newServiceFixture() *serviceFixture {
	invoiceRepo := new(MockInvoiceRepository)
	ownerRepo := new(MockOwnerRepository)
	apptRepo := new(MockAppointmentRepository)
	allocator := sequence.NewAllocator(&memoryCounters{}, zap.NewNop())
	scope := NewNoOpTransactionScope(invoiceRepo, apptRepo)

	return &serviceFixture{
		service:     NewInvoiceService(scope, invoiceRepo, ownerRepo, allocator, zap.NewNop()),
		invoiceRepo: invoiceRepo,
		ownerRepo:   ownerRepo,
		apptRepo:    apptRepo,
	}
}

func newStoredInvoice(t *testing.T, itemTotal float64) *billing.Invoice {
	inv, err := billing.NewInvoice("INV-20260315-0001", uuid.New(), nil, time.Now().Add(DefaultPaymentTerm), "")
	require.NoError(t, err)
	if itemTotal > 0 {
		_, err = inv.AddItem("Consultation", decimal.NewFromInt(1), decimal.NewFromFloat(itemTotal), decimal.Zero)
		require.NoError(t, err)
	}
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("mints day-scoped invoice number and defaults due date", func(t *testing.T) {
		f := newServiceFixture()
		ownerID := uuid.New()
		f.ownerRepo.On("Exists", ctx, ownerID).Return(true, nil)
		f.invoiceRepo.On("Create", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		invoice, err := f.service.Create(ctx, CreateInvoiceInput{OwnerID: ownerID})

		require.NoError(t, err)
		expectedNumber := sequence.InvoiceNumber(time.Now(), 1)
		assert.Equal(t, expectedNumber, invoice.InvoiceNumber)
		assert.WithinDuration(t, time.Now().Add(DefaultPaymentTerm), invoice.DueDate, time.Minute)
		assert.Equal(t, billing.InvoiceStatusPending, invoice.Status)
		f.invoiceRepo.AssertExpectations(t)
	})

	t.Run("numbers advance within the day", func(t *testing.T) {
		f := newServiceFixture()
		ownerID := uuid.New()
		f.ownerRepo.On("Exists", ctx, ownerID).Return(true, nil)
		f.invoiceRepo.On("Create", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		first, err := f.service.Create(ctx, CreateInvoiceInput{OwnerID: ownerID})
		require.NoError(t, err)
		second, err := f.service.Create(ctx, CreateInvoiceInput{OwnerID: ownerID})
		require.NoError(t, err)

		assert.Equal(t, sequence.InvoiceNumber(time.Now(), 1), first.InvoiceNumber)
		assert.Equal(t, sequence.InvoiceNumber(time.Now(), 2), second.InvoiceNumber)
	})

	t.Run("initial items are totalled", func(t *testing.T) {
		f := newServiceFixture()
		ownerID := uuid.New()
		f.ownerRepo.On("Exists", ctx, ownerID).Return(true, nil)
		f.invoiceRepo.On("Create", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		invoice, err := f.service.Create(ctx, CreateInvoiceInput{
			OwnerID: ownerID,
			Items: []CreateInvoiceItemInput{
				{Description: "Consultation", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(80)},
				{Description: "Vaccine", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(75)},
			},
		})

		require.NoError(t, err)
		assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(230)))
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		f := newServiceFixture()
		ownerID := uuid.New()
		f.ownerRepo.On("Exists", ctx, ownerID).Return(false, nil)

		_, err := f.service.Create(ctx, CreateInvoiceInput{OwnerID: ownerID})

		assert.Error(t, err)
		f.invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("second invoice for an appointment is rejected", func(t *testing.T) {
		f := newServiceFixture()
		ownerID := uuid.New()
		apptID := uuid.New()
		f.ownerRepo.On("Exists", ctx, ownerID).Return(true, nil)
		f.invoiceRepo.On("ExistsByAppointmentID", ctx, apptID).Return(true, nil)

		_, err := f.service.Create(ctx, CreateInvoiceInput{OwnerID: ownerID, AppointmentID: &apptID})

		assert.Error(t, err)
	})
}

func TestInvoiceService_Payments(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement flow with rejected overpayment", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 230)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("Save", ctx, invoice).Return(nil)

		updated, err := f.service.AddPayment(ctx, invoice.ID, AddPaymentInput{
			Amount: decimal.NewFromInt(100), Method: billing.PaymentMethodCash,
		})
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPartiallyPaid, updated.Status)

		_, err = f.service.AddPayment(ctx, invoice.ID, AddPaymentInput{
			Amount: decimal.NewFromInt(140), Method: billing.PaymentMethodCash,
		})
		assert.ErrorIs(t, err, billing.ErrOverpaymentRejected)

		updated, err = f.service.AddPayment(ctx, invoice.ID, AddPaymentInput{
			Amount: decimal.NewFromInt(130), Method: billing.PaymentMethodCard,
		})
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, updated.Status)
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(230)))
	})

	t.Run("removing a payment moves status backward", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 100)
		payment, err := invoice.AddPayment(decimal.NewFromInt(100), billing.PaymentMethodCash, "", time.Time{})
		require.NoError(t, err)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("Save", ctx, invoice).Return(nil)

		updated, err := f.service.RemovePayment(ctx, invoice.ID, payment.ID)

		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPending, updated.Status)
	})
}

func TestInvoiceService_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("completes the linked appointment", func(t *testing.T) {
		f := newServiceFixture()
		appt, err := scheduling.NewAppointment(uuid.New(), uuid.New(), time.Now(), "checkup")
		require.NoError(t, err)
		apptID := appt.ID

		invoice, err := billing.NewInvoice("INV-20260315-0001", uuid.New(), &apptID, time.Now().Add(DefaultPaymentTerm), "")
		require.NoError(t, err)

		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("Save", ctx, invoice).Return(nil)
		f.apptRepo.On("FindByID", ctx, apptID).Return(appt, nil)
		f.apptRepo.On("Save", ctx, appt).Return(nil)

		updated, err := f.service.Finalize(ctx, invoice.ID)

		require.NoError(t, err)
		assert.True(t, updated.IsFinalized)
		assert.Equal(t, scheduling.AppointmentStatusCompleted, appt.Status)
		f.apptRepo.AssertExpectations(t)
	})

	t.Run("second finalize fails", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 100)
		require.NoError(t, invoice.Finalize())
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)

		_, err := f.service.Finalize(ctx, invoice.ID)

		assert.ErrorIs(t, err, billing.ErrAlreadyFinalized)
		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no appointment linked skips scheduling", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 100)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("Save", ctx, invoice).Return(nil)

		_, err := f.service.Finalize(ctx, invoice.ID)

		require.NoError(t, err)
		f.apptRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes invoice without payment history", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 100)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("CountPaymentHistory", ctx, invoice.ID).Return(int64(0), nil)
		f.invoiceRepo.On("Delete", ctx, invoice.ID).Return(nil)

		err := f.service.Delete(ctx, invoice.ID)

		require.NoError(t, err)
		f.invoiceRepo.AssertExpectations(t)
	})

	t.Run("payment history blocks deletion even after removal", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 100)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("CountPaymentHistory", ctx, invoice.ID).Return(int64(1), nil)

		err := f.service.Delete(ctx, invoice.ID)

		assert.ErrorIs(t, err, billing.ErrDeleteBlocked)
		f.invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("item ops keep totals consistent", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 0)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("Save", ctx, invoice).Return(nil)

		updated, err := f.service.AddItem(ctx, invoice.ID, CreateInvoiceItemInput{
			Description: "Surgery", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500),
		})
		require.NoError(t, err)
		assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(500)))

		itemID := updated.Items[0].ID
		newDiscount := decimal.NewFromInt(10)
		updated, err = f.service.UpdateItem(ctx, invoice.ID, itemID, UpdateItemInput{DiscountPercent: &newDiscount})
		require.NoError(t, err)
		assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(450)))

		updated, err = f.service.RemoveItem(ctx, invoice.ID, itemID)
		require.NoError(t, err)
		assert.True(t, updated.TotalAmount.IsZero())
	})

	t.Run("finalized invoice rejects mutations", func(t *testing.T) {
		f := newServiceFixture()
		invoice := newStoredInvoice(t, 100)
		require.NoError(t, invoice.Finalize())
		f.invoiceRepo.On("FindByIDForUpdate", ctx, invoice.ID).Return(invoice, nil)

		_, err := f.service.AddItem(ctx, invoice.ID, CreateInvoiceItemInput{
			Description: "Late fee", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5),
		})

		assert.ErrorIs(t, err, billing.ErrInvoiceFinalized)
	})
}

// recordingEventBus captures published events for assertions
type recordingEventBus struct {
	published []shared.DomainEvent
}

func (b *recordingEventBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.published = append(b.published, events...)
	return nil
}

func (b *recordingEventBus) Subscribe(shared.EventHandler, ...string) {}

func TestInvoiceService_PublishesDomainEvents(t *testing.T) {
	t.Run("payment events reach the bus after the mutation commits", func(t *testing.T) {
		f := newServiceFixture()
		bus := &recordingEventBus{}
		WithEventBus(bus)(f.service)

		invoice := newStoredInvoice(t, 100)
		invoice.ClearDomainEvents()

		f.invoiceRepo.On("FindByIDForUpdate", mock.Anything, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("Save", mock.Anything, invoice).Return(nil)

		_, err := f.service.AddPayment(context.Background(), invoice.ID, AddPaymentInput{
			Amount: decimal.NewFromInt(100), Method: billing.PaymentMethodCash,
		})
		require.NoError(t, err)

		require.Len(t, bus.published, 2)
		assert.Equal(t, "PaymentReceived", bus.published[0].EventType())
		assert.Equal(t, "InvoicePaid", bus.published[1].EventType())
		assert.Empty(t, invoice.GetDomainEvents(), "aggregate is drained after publishing")
	})

	t.Run("creation publishes the created event", func(t *testing.T) {
		f := newServiceFixture()
		bus := &recordingEventBus{}
		WithEventBus(bus)(f.service)

		ownerID := uuid.New()
		f.ownerRepo.On("Exists", mock.Anything, ownerID).Return(true, nil)
		f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		invoice, err := f.service.Create(context.Background(), CreateInvoiceInput{OwnerID: ownerID})
		require.NoError(t, err)

		require.Len(t, bus.published, 1)
		assert.Equal(t, "InvoiceCreated", bus.published[0].EventType())
		assert.Empty(t, invoice.GetDomainEvents())
	})

	t.Run("nothing is published when a mutation fails", func(t *testing.T) {
		f := newServiceFixture()
		bus := &recordingEventBus{}
		WithEventBus(bus)(f.service)

		invoice := newStoredInvoice(t, 100)
		invoice.ClearDomainEvents()

		f.invoiceRepo.On("FindByIDForUpdate", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := f.service.AddPayment(context.Background(), invoice.ID, AddPaymentInput{
			Amount: decimal.NewFromInt(150), Method: billing.PaymentMethodCash,
		})
		require.ErrorIs(t, err, billing.ErrOverpaymentRejected)
		assert.Empty(t, bus.published)
	})
}
