package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID  `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	DueDate       time.Time  `json:"due_date"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", inv.ID, "Invoice"),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		OwnerID:         inv.OwnerID,
		AppointmentID:   inv.AppointmentID,
		DueDate:         inv.DueDate,
	}
}

// PaymentReceivedEvent is raised when a payment is recorded on an invoice
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(inv *Invoice, payment *Payment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentReceived", inv.ID, "Invoice"),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		Method:          payment.Method,
		PaidAmount:      inv.PaidAmount,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", inv.ID, "Invoice"),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		OwnerID:         inv.OwnerID,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoiceFinalizedEvent is raised when an invoice is finalized
type InvoiceFinalizedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID  `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	FinalizedAt   time.Time  `json:"finalized_at"`
}

// NewInvoiceFinalizedEvent creates a new InvoiceFinalizedEvent
func NewInvoiceFinalizedEvent(inv *Invoice) *InvoiceFinalizedEvent {
	finalizedAt := time.Now()
	if inv.FinalizedAt != nil {
		finalizedAt = *inv.FinalizedAt
	}
	return &InvoiceFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceFinalized", inv.ID, "Invoice"),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		AppointmentID:   inv.AppointmentID,
		FinalizedAt:     finalizedAt,
	}
}
