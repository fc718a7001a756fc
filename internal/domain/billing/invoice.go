package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"        // Nothing paid yet
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // Some money received, balance remains
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Paid in full
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Billing errors surfaced by the aggregate.
var (
	ErrInvoiceFinalized    = shared.NewDomainError("INVOICE_FINALIZED", "Invoice is finalized and cannot be modified")
	ErrAlreadyFinalized    = shared.NewDomainError("ALREADY_FINALIZED", "Invoice has already been finalized")
	ErrOverpaymentRejected = shared.NewDomainError("OVERPAYMENT_REJECTED", "Payment amount exceeds the outstanding balance")
	ErrDeleteBlocked       = shared.NewDomainError("DELETE_BLOCKED", "Invoice with payment history cannot be deleted")
)

// Invoice is the billing aggregate root. Items and Payments are its
// authoritative child lists: TotalAmount, PaidAmount and Status are
// always recomputed from them after every mutation and are never
// patched incrementally.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `json:"invoice_number"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	AppointmentID *uuid.UUID      `json:"appointment_id,omitempty"`
	DueDate       time.Time       `json:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        InvoiceStatus   `json:"status"`
	IsFinalized   bool            `json:"is_finalized"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Items         []InvoiceItem   `json:"items"`
	Payments      []Payment       `json:"payments"`
}

// NewInvoice creates a pending invoice with no items or payments.
func NewInvoice(invoiceNumber string, ownerID uuid.UUID, appointmentID *uuid.UUID, dueDate time.Time, notes string) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	if appointmentID != nil && *appointmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Appointment ID cannot be empty when provided")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Due date is required")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		OwnerID:           ownerID,
		AppointmentID:     appointmentID,
		DueDate:           dueDate,
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusPending,
		Notes:             notes,
		Items:             []InvoiceItem{},
		Payments:          []Payment{},
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// OutstandingAmount returns the unpaid balance.
func (inv *Invoice) OutstandingAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// AddItem appends a billable line and recomputes the totals.
func (inv *Invoice) AddItem(description string, quantity, unitPrice, discountPercent decimal.Decimal) (*InvoiceItem, error) {
	if inv.IsFinalized {
		return nil, ErrInvoiceFinalized
	}

	item, err := NewInvoiceItem(inv.ID, description, quantity, unitPrice, discountPercent)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recompute()

	return item, nil
}

// UpdateItem applies a partial update to the identified line and
// recomputes the totals. The line total is always derived here, any
// caller-supplied total is ignored.
func (inv *Invoice) UpdateItem(itemID uuid.UUID, update ItemUpdate) (*InvoiceItem, error) {
	if inv.IsFinalized {
		return nil, ErrInvoiceFinalized
	}

	idx := inv.itemIndex(itemID)
	if idx < 0 {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Invoice item %s not found", itemID))
	}

	if err := inv.Items[idx].apply(update); err != nil {
		return nil, err
	}
	inv.recompute()

	return &inv.Items[idx], nil
}

// RemoveItem deletes the identified line and recomputes the totals.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.IsFinalized {
		return ErrInvoiceFinalized
	}

	idx := inv.itemIndex(itemID)
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Invoice item %s not found", itemID))
	}

	inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
	inv.recompute()

	return nil
}

// AddPayment records money received against the invoice. A payment
// exceeding the outstanding balance is rejected outright, leaving the
// invoice untouched.
func (inv *Invoice) AddPayment(amount decimal.Decimal, method PaymentMethod, notes string, paymentDate time.Time) (*Payment, error) {
	if inv.IsFinalized {
		return nil, ErrInvoiceFinalized
	}

	payment, err := NewPayment(inv.ID, amount, method, notes, paymentDate)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(inv.OutstandingAmount()) {
		return nil, ErrOverpaymentRejected
	}

	inv.Payments = append(inv.Payments, *payment)
	inv.recompute()

	inv.AddDomainEvent(NewPaymentReceivedEvent(inv, payment))
	if inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	return payment, nil
}

// RemovePayment removes a recorded payment (correction of a mistaken
// entry). The status may move backward as a result. The removed row is
// soft-deleted in storage, so the invoice keeps its payment history.
func (inv *Invoice) RemovePayment(paymentID uuid.UUID) error {
	if inv.IsFinalized {
		return ErrInvoiceFinalized
	}

	idx := -1
	for i := range inv.Payments {
		if inv.Payments[i].ID == paymentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Payment %s not found", paymentID))
	}

	inv.Payments = append(inv.Payments[:idx], inv.Payments[idx+1:]...)
	inv.recompute()

	return nil
}

// Finalize locks the invoice against further modification. Finalizing
// twice is an error; there is no way back.
func (inv *Invoice) Finalize() error {
	if inv.IsFinalized {
		return ErrAlreadyFinalized
	}

	now := time.Now()
	inv.IsFinalized = true
	inv.FinalizedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceFinalizedEvent(inv))

	return nil
}

// UpdateNotes replaces the free-form notes.
func (inv *Invoice) UpdateNotes(notes string) error {
	if inv.IsFinalized {
		return ErrInvoiceFinalized
	}
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// recompute rebuilds all derived state from the child lists.
func (inv *Invoice) recompute() {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].TotalPrice)
	}
	paid := decimal.Zero
	for i := range inv.Payments {
		paid = paid.Add(inv.Payments[i].Amount)
	}

	inv.TotalAmount = total
	inv.PaidAmount = paid
	inv.Status = DeriveStatus(total, paid)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

func (inv *Invoice) itemIndex(itemID uuid.UUID) int {
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// DeriveStatus is the single status rule: PAID when a positive total is
// covered, PARTIALLY_PAID when anything has been received, PENDING
// otherwise. A zero-total invoice is PENDING, never PAID.
func DeriveStatus(total, paid decimal.Decimal) InvoiceStatus {
	switch {
	case total.GreaterThan(decimal.Zero) && paid.GreaterThanOrEqual(total):
		return InvoiceStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusPending
	}
}
