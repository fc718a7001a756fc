package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
)

// CreateInvoiceItemInput is one billable line supplied at creation time.
type CreateInvoiceItemInput struct {
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// CreateInvoiceInput carries everything needed to open a new invoice.
// The invoice number is never supplied by the caller; it is minted from
// the day-scoped sequence.
type CreateInvoiceInput struct {
	OwnerID       uuid.UUID
	AppointmentID *uuid.UUID
	DueDate       *time.Time // nil defaults to 30 days from now
	Notes         string
	Items         []CreateInvoiceItemInput
}

// UpdateItemInput is a partial line update; nil fields keep their value.
type UpdateItemInput struct {
	Description     *string
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent *decimal.Decimal
}

func (i UpdateItemInput) toDomain() billing.ItemUpdate {
	return billing.ItemUpdate{
		Description:     i.Description,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
	}
}

// AddPaymentInput records money received against an invoice.
type AddPaymentInput struct {
	Amount      decimal.Decimal
	Method      billing.PaymentMethod
	Notes       string
	PaymentDate *time.Time // nil defaults to now
}

// ListInvoicesInput carries the list filter and pagination.
type ListInvoicesInput struct {
	OwnerID  *uuid.UUID
	Status   *billing.InvoiceStatus
	DueFrom  *time.Time
	DueTo    *time.Time
	Page     int
	PageSize int
}

// InvoiceList is one page of invoices plus the unpaged total.
type InvoiceList struct {
	Invoices []billing.Invoice
	Total    int64
}
