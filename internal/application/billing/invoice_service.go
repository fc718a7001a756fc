package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/scheduling"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

const (
	// DefaultPaymentTerm is the due date offset applied when none is given
	DefaultPaymentTerm = 30 * 24 * time.Hour
)

// InvoiceService handles the invoice ledger use cases. Every mutation
// runs inside a TransactionScope that locks the invoice row, so two
// concurrent operations on the same invoice serialize instead of
// interleaving.
type InvoiceService struct {
	txScope     TransactionScope
	invoiceRepo billing.InvoiceRepository
	ownerRepo   directory.OwnerRepository
	allocator   *sequence.Allocator
	events      shared.EventBus
	logger      *zap.Logger
}

// InvoiceServiceOption is a functional option for InvoiceService.
type InvoiceServiceOption func(*InvoiceService)

// WithEventBus publishes the aggregate's domain events after each
// committed mutation.
func WithEventBus(bus shared.EventBus) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.events = bus
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	txScope TransactionScope,
	invoiceRepo billing.InvoiceRepository,
	ownerRepo directory.OwnerRepository,
	allocator *sequence.Allocator,
	logger *zap.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		txScope:     txScope,
		invoiceRepo: invoiceRepo,
		ownerRepo:   ownerRepo,
		allocator:   allocator,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publishEvents drains the aggregate's recorded events onto the bus.
// Called only after the surrounding transaction has committed.
func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	invoice.ClearDomainEvents()
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("publishing invoice events", zap.Error(err))
	}
}

// Create opens a new invoice. The invoice number is minted from the
// day-scoped sequence, so numbers restart at 0001 each calendar day.
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*billing.Invoice, error) {
	exists, err := s.ownerRepo.Exists(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("checking owner: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Owner %s not found", input.OwnerID))
	}

	if input.AppointmentID != nil {
		taken, err := s.invoiceRepo.ExistsByAppointmentID(ctx, *input.AppointmentID)
		if err != nil {
			return nil, fmt.Errorf("checking appointment link: %w", err)
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Appointment %s already has an invoice", *input.AppointmentID))
		}
	}

	issuedAt := time.Now()
	seq, err := s.allocator.Next(ctx, sequence.InvoiceCounterKey(issuedAt))
	if err != nil {
		return nil, err
	}
	invoiceNumber := sequence.InvoiceNumber(issuedAt, seq)

	dueDate := issuedAt.Add(DefaultPaymentTerm)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	invoice, err := billing.NewInvoice(invoiceNumber, input.OwnerID, input.AppointmentID, dueDate, input.Notes)
	if err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if _, err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice, item.DiscountPercent); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.InvoiceRepo().Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("owner_id", invoice.OwnerID.String()),
	)

	return invoice, nil
}

// AddItem appends a billable line to the invoice.
func (s *InvoiceService) AddItem(ctx context.Context, invoiceID uuid.UUID, input CreateInvoiceItemInput) (*billing.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, _ TransactionalRepositories) error {
		_, err := invoice.AddItem(input.Description, input.Quantity, input.UnitPrice, input.DiscountPercent)
		return err
	})
}

// UpdateItem applies a partial update to one line of the invoice.
func (s *InvoiceService) UpdateItem(ctx context.Context, invoiceID, itemID uuid.UUID, input UpdateItemInput) (*billing.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, _ TransactionalRepositories) error {
		_, err := invoice.UpdateItem(itemID, input.toDomain())
		return err
	})
}

// RemoveItem deletes one line from the invoice.
func (s *InvoiceService) RemoveItem(ctx context.Context, invoiceID, itemID uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, _ TransactionalRepositories) error {
		return invoice.RemoveItem(itemID)
	})
}

// AddPayment records money received against the invoice.
func (s *InvoiceService) AddPayment(ctx context.Context, invoiceID uuid.UUID, input AddPaymentInput) (*billing.Invoice, error) {
	paymentDate := time.Time{}
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}
	return s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, _ TransactionalRepositories) error {
		_, err := invoice.AddPayment(input.Amount, input.Method, input.Notes, paymentDate)
		return err
	})
}

// RemovePayment removes a mistakenly recorded payment. The row is
// soft-deleted in storage, so the payment history is preserved.
func (s *InvoiceService) RemovePayment(ctx context.Context, invoiceID, paymentID uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, _ TransactionalRepositories) error {
		return invoice.RemovePayment(paymentID)
	})
}

// Finalize locks the invoice and, when it is linked to an appointment,
// completes that appointment in the same transaction.
func (s *InvoiceService) Finalize(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, repos TransactionalRepositories) error {
		if err := invoice.Finalize(); err != nil {
			return err
		}
		if invoice.AppointmentID == nil {
			return nil
		}

		appointment, err := repos.AppointmentRepo().FindByID(ctx, *invoice.AppointmentID)
		if err != nil {
			return fmt.Errorf("loading linked appointment: %w", err)
		}
		if appointment.Status == scheduling.AppointmentStatusCompleted {
			return nil
		}
		if err := appointment.Complete(); err != nil {
			return err
		}
		return repos.AppointmentRepo().Save(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice finalized",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("invoice_id", invoice.ID.String()),
	)

	return invoice, nil
}

// UpdateNotes replaces the invoice's free-form notes
func (s *InvoiceService) UpdateNotes(ctx context.Context, invoiceID uuid.UUID, notes string) (*billing.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(invoice *billing.Invoice, _ TransactionalRepositories) error {
		return invoice.UpdateNotes(notes)
	})
}

// Delete removes an invoice and its items. An invoice that has ever had
// a payment recorded, including since-removed ones, is kept for audit.
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceRepo := repos.InvoiceRepo()
		invoice, err := invoiceRepo.FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		count, err := invoiceRepo.CountPaymentHistory(ctx, invoice.ID)
		if err != nil {
			return fmt.Errorf("counting payment history: %w", err)
		}
		if count > 0 {
			return billing.ErrDeleteBlocked
		}

		return invoiceRepo.Delete(ctx, invoice.ID)
	})
}

// GetByID loads an invoice with its items and active payments.
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, invoiceID)
}

// GetByAppointmentID loads the invoice linked to an appointment.
func (s *InvoiceService) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByAppointmentID(ctx, appointmentID)
}

// List returns one page of invoices matching the filter.
func (s *InvoiceService) List(ctx context.Context, input ListInvoicesInput) (*InvoiceList, error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, billing.InvoiceFilter{
		OwnerID:  input.OwnerID,
		Status:   input.Status,
		DueFrom:  input.DueFrom,
		DueTo:    input.DueTo,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &InvoiceList{Invoices: invoices, Total: total}, nil
}

// mutate runs one aggregate mutation under the invoice's row lock and
// persists the recomputed state.
func (s *InvoiceService) mutate(ctx context.Context, invoiceID uuid.UUID, fn func(invoice *billing.Invoice, repos TransactionalRepositories) error) (*billing.Invoice, error) {
	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceRepo := repos.InvoiceRepo()

		loaded, err := invoiceRepo.FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := fn(loaded, repos); err != nil {
			return err
		}
		if err := invoiceRepo.Save(ctx, loaded); err != nil {
			return err
		}
		invoice = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	return invoice, nil
}
