package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// PaymentMethod represents how a payment was settled.
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodCard      PaymentMethod = "CARD"
	PaymentMethodTransfer  PaymentMethod = "TRANSFER"
	PaymentMethodInsurance PaymentMethod = "INSURANCE"
	PaymentMethodOther     PaymentMethod = "OTHER"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer,
		PaymentMethodInsurance, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment records money received against an Invoice. Removed payments are
// soft-deleted in storage so the payment history survives removal; the
// aggregate only ever holds the active ones.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Notes       string          `json:"notes,omitempty"`
	PaymentDate time.Time       `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewPayment validates and creates a payment against the given invoice.
// A zero paymentDate defaults to now.
func NewPayment(invoiceID uuid.UUID, amount decimal.Decimal, method PaymentMethod, notes string, paymentDate time.Time) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment method is not valid")
	}

	now := time.Now()
	if paymentDate.IsZero() {
		paymentDate = now
	}
	return &Payment{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Amount:      amount,
		Method:      method,
		Notes:       notes,
		PaymentDate: paymentDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
