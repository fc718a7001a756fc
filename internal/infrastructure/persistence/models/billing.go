package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string                `gorm:"type:varchar(30);not null;uniqueIndex"`
	OwnerID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	AppointmentID *uuid.UUID            `gorm:"type:uuid;uniqueIndex"`
	DueDate       time.Time             `gorm:"not null;index"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	IsFinalized   bool                  `gorm:"not null;default:false"`
	FinalizedAt   *time.Time
	Notes         string             `gorm:"type:text"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments      []PaymentModel     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the persistence model for an invoice line.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description     string          `gorm:"type:varchar(500);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// PaymentModel is the persistence model for a payment. Removed payments
// are soft-deleted so the invoice keeps its full payment history.
type PaymentModel struct {
	BaseModel
	InvoiceID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Method      billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Notes       string                `gorm:"type:text"`
	PaymentDate time.Time             `gorm:"not null"`
	DeletedAt   gorm.DeletedAt        `gorm:"index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	items := make([]billing.InvoiceItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].toDomain()
	}
	payments := make([]billing.Payment, len(m.Payments))
	for i := range m.Payments {
		payments[i] = m.Payments[i].toDomain()
	}

	return &billing.Invoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		InvoiceNumber: m.InvoiceNumber,
		OwnerID:       m.OwnerID,
		AppointmentID: m.AppointmentID,
		DueDate:       m.DueDate,
		TotalAmount:   m.TotalAmount,
		PaidAmount:    m.PaidAmount,
		Status:        m.Status,
		IsFinalized:   m.IsFinalized,
		FinalizedAt:   m.FinalizedAt,
		Notes:         m.Notes,
		Items:         items,
		Payments:      payments,
	}
}

// FromDomain populates the persistence model from a domain Invoice aggregate.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.OwnerID = inv.OwnerID
	m.AppointmentID = inv.AppointmentID
	m.DueDate = inv.DueDate
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status
	m.IsFinalized = inv.IsFinalized
	m.FinalizedAt = inv.FinalizedAt
	m.Notes = inv.Notes

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i].fromDomain(&inv.Items[i])
	}
	m.Payments = make([]PaymentModel, len(inv.Payments))
	for i := range inv.Payments {
		m.Payments[i].fromDomain(&inv.Payments[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

func (m *InvoiceItemModel) toDomain() billing.InvoiceItem {
	return billing.InvoiceItem{
		ID:              m.ID,
		InvoiceID:       m.InvoiceID,
		Description:     m.Description,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		TotalPrice:      m.TotalPrice,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (m *InvoiceItemModel) fromDomain(item *billing.InvoiceItem) {
	m.ID = item.ID
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
	m.InvoiceID = item.InvoiceID
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.DiscountPercent = item.DiscountPercent
	m.TotalPrice = item.TotalPrice
}

func (m *PaymentModel) toDomain() billing.Payment {
	return billing.Payment{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		Method:      m.Method,
		Notes:       m.Notes,
		PaymentDate: m.PaymentDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m *PaymentModel) fromDomain(payment *billing.Payment) {
	m.ID = payment.ID
	m.CreatedAt = payment.CreatedAt
	m.UpdatedAt = payment.UpdatedAt
	m.InvoiceID = payment.InvoiceID
	m.Amount = payment.Amount
	m.Method = payment.Method
	m.Notes = payment.Notes
	m.PaymentDate = payment.PaymentDate
}
