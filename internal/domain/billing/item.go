package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

var maxDiscountPercent = decimal.NewFromInt(100)

// InvoiceItem is a billable line within an Invoice. It is owned by the
// aggregate: line totals are always computed here, never accepted from
// callers.
type InvoiceItem struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewInvoiceItem validates the line inputs and computes its total.
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity, unitPrice, discountPercent decimal.Decimal) (*InvoiceItem, error) {
	if err := validateItemInputs(description, quantity, unitPrice, discountPercent); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &InvoiceItem{
		ID:              uuid.New(),
		InvoiceID:       invoiceID,
		Description:     description,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	item.TotalPrice = item.computeTotal()
	return item, nil
}

// ItemUpdate carries a partial update for a line. Nil fields keep their
// current value.
type ItemUpdate struct {
	Description     *string
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent *decimal.Decimal
}

func (i *InvoiceItem) apply(update ItemUpdate) error {
	description := i.Description
	quantity := i.Quantity
	unitPrice := i.UnitPrice
	discountPercent := i.DiscountPercent

	if update.Description != nil {
		description = *update.Description
	}
	if update.Quantity != nil {
		quantity = *update.Quantity
	}
	if update.UnitPrice != nil {
		unitPrice = *update.UnitPrice
	}
	if update.DiscountPercent != nil {
		discountPercent = *update.DiscountPercent
	}

	if err := validateItemInputs(description, quantity, unitPrice, discountPercent); err != nil {
		return err
	}

	i.Description = description
	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.DiscountPercent = discountPercent
	i.TotalPrice = i.computeTotal()
	i.UpdatedAt = time.Now()
	return nil
}

// computeTotal is quantity x unitPrice x (1 - discountPercent/100),
// rounded to 2 decimal places.
func (i *InvoiceItem) computeTotal() decimal.Decimal {
	discountFactor := decimal.NewFromInt(1).Sub(i.DiscountPercent.Div(maxDiscountPercent))
	return i.Quantity.Mul(i.UnitPrice).Mul(discountFactor).Round(2)
}

func validateItemInputs(description string, quantity, unitPrice, discountPercent decimal.Decimal) error {
	if description == "" {
		return shared.NewDomainError("INVALID_INPUT", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Item quantity must be positive")
	}
	if unitPrice.LessThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Item unit price cannot be negative")
	}
	if discountPercent.LessThan(decimal.Zero) || discountPercent.GreaterThan(maxDiscountPercent) {
		return shared.NewDomainError("INVALID_INPUT", "Item discount percent must be between 0 and 100")
	}
	return nil
}
