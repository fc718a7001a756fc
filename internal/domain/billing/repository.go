package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	OwnerID  *uuid.UUID     // Filter by owner
	Status   *InvoiceStatus // Filter by status
	DueFrom  *time.Time     // Filter by due date range start
	DueTo    *time.Time     // Filter by due date range end
	Page     int            // 1-based page number, 0 means first page
	PageSize int            // 0 means the repository default
}

// InvoiceRepository defines the interface for invoice persistence.
// Implementations load and store the full aggregate: items and active
// payments travel with the invoice row.
type InvoiceRepository interface {
	// Create persists a new invoice with its items
	Create(ctx context.Context, invoice *Invoice) error

	// Save persists the current aggregate state: invoice row, item rows
	// and payment rows are reconciled against the aggregate's child lists
	Save(ctx context.Context, invoice *Invoice) error

	// FindByID loads an invoice with its items and active payments
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate loads the invoice while holding its row lock.
	// Must be called inside a transaction; the lock is released on commit
	// or rollback
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByAppointmentID loads the invoice linked to an appointment
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*Invoice, error)

	// ExistsByAppointmentID reports whether an invoice is already linked
	// to the appointment
	ExistsByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (bool, error)

	// FindAll lists invoices matching the filter and returns the total
	// count for pagination
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)

	// CountPaymentHistory counts every payment ever recorded on the
	// invoice, including soft-deleted (removed) ones
	CountPaymentHistory(ctx context.Context, invoiceID uuid.UUID) (int64, error)

	// Delete removes the invoice and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
