package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// GormOwnerRepository implements directory.OwnerRepository using GORM.
// Owner records carry their GORM tags on the domain struct directly.
type GormOwnerRepository struct {
	db *gorm.DB
}

// NewGormOwnerRepository creates a new GormOwnerRepository
func NewGormOwnerRepository(db *gorm.DB) *GormOwnerRepository {
	return &GormOwnerRepository{db: db}
}

// Create persists a new owner
func (r *GormOwnerRepository) Create(ctx context.Context, owner *directory.Owner) error {
	return r.db.WithContext(ctx).Create(owner).Error
}

// Save updates an existing owner
func (r *GormOwnerRepository) Save(ctx context.Context, owner *directory.Owner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

// FindByID finds an owner by ID
func (r *GormOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Owner, error) {
	var owner directory.Owner
	if err := r.db.WithContext(ctx).First(&owner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}

// FindByCode finds an owner by their assigned code
func (r *GormOwnerRepository) FindByCode(ctx context.Context, code string) (*directory.Owner, error) {
	var owner directory.Owner
	if err := r.db.WithContext(ctx).First(&owner, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}

// Exists reports whether an owner with the given ID exists
func (r *GormOwnerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&directory.Owner{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// FindAll lists owners with keyword search on name, phone and code
func (r *GormOwnerRepository) FindAll(ctx context.Context, keyword string, page, pageSize int) ([]directory.Owner, int64, error) {
	query := r.db.WithContext(ctx).Model(&directory.Owner{})

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR phone LIKE ? OR code LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var owners []directory.Owner
	if err := query.
		Order("code ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&owners).Error; err != nil {
		return nil, 0, err
	}
	return owners, total, nil
}

// MaxCode returns the highest assigned owner code, or "" when none exist.
// Codes are zero-padded to a fixed width, so lexicographic max is the
// numeric max.
func (r *GormOwnerRepository) MaxCode(ctx context.Context) (string, error) {
	var code *string
	err := r.db.WithContext(ctx).
		Model(&directory.Owner{}).
		Select("MAX(code)").
		Scan(&code).Error
	if err != nil || code == nil {
		return "", err
	}
	return *code, nil
}

// Ensure GormOwnerRepository implements OwnerRepository
var _ directory.OwnerRepository = (*GormOwnerRepository)(nil)
