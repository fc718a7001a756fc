package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
	"github.com/profman23/fluffnwoof-sub005/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create persists a new invoice with its items. A unique-index hit on
// the appointment link means a concurrent create won the race past the
// service-level pre-check, so it surfaces as the same ALREADY_EXISTS
// error the pre-check produces.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("ALREADY_EXISTS", "Appointment already has an invoice")
		}
		return err
	}
	return nil
}

// Save reconciles the stored rows against the aggregate's child lists:
// the invoice row is updated, missing items are deleted, missing payments
// are soft-deleted, and new children are inserted.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	db := r.db.WithContext(ctx)

	if err := db.Omit("Items", "Payments").Save(model).Error; err != nil {
		return err
	}

	itemIDs := make([]uuid.UUID, len(model.Items))
	for i := range model.Items {
		itemIDs[i] = model.Items[i].ID
	}
	if err := deleteAbsentChildren(db, &models.InvoiceItemModel{}, invoice.ID, itemIDs); err != nil {
		return err
	}
	for i := range model.Items {
		item := model.Items[i]
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&item).Error; err != nil {
			return err
		}
	}

	paymentIDs := make([]uuid.UUID, len(model.Payments))
	for i := range model.Payments {
		paymentIDs[i] = model.Payments[i].ID
	}
	if err := deleteAbsentChildren(db, &models.PaymentModel{}, invoice.ID, paymentIDs); err != nil {
		return err
	}
	for i := range model.Payments {
		payment := model.Payments[i]
		// Payments are immutable once recorded
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&payment).Error; err != nil {
			return err
		}
	}

	return nil
}

// deleteAbsentChildren removes child rows no longer present in the
// aggregate. PaymentModel carries gorm.DeletedAt, so its rows are
// soft-deleted and survive for the payment history.
func deleteAbsentChildren(db *gorm.DB, model interface{}, invoiceID uuid.UUID, keepIDs []uuid.UUID) error {
	q := db.Where("invoice_id = ?", invoiceID)
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	}
	return q.Delete(model).Error
}

// FindByID loads an invoice with its items and active payments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, r.db, "id", id)
}

// FindByIDForUpdate loads the invoice while holding its row lock. Must be
// called on a transaction-scoped repository.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "id", id)
}

// FindByAppointmentID loads the invoice linked to an appointment
func (r *GormInvoiceRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, r.db, "appointment_id", appointmentID)
}

func (r *GormInvoiceRepository) findOne(ctx context.Context, db *gorm.DB, column string, value uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&model, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Invoice not found: %s %s", column, value))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByAppointmentID reports whether an invoice is already linked to
// the appointment
func (r *GormInvoiceRepository) ExistsByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error
	return count > 0, err
}

// FindAll lists invoices matching the filter with the unpaged total
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var modelsList []models.InvoiceModel
	if err := query.
		Preload("Items").
		Preload("Payments").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&modelsList).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]billing.Invoice, len(modelsList))
	for i := range modelsList {
		invoices[i] = *modelsList[i].ToDomain()
	}
	return invoices, total, nil
}

// CountPaymentHistory counts every payment ever recorded on the invoice,
// including soft-deleted ones
func (r *GormInvoiceRepository) CountPaymentHistory(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.PaymentModel{}).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error
	return count, err
}

// Delete removes the invoice and its items. The caller enforces the
// payment-history guard before calling this.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.InvoiceModel{}, "id = ?", id).Error
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
