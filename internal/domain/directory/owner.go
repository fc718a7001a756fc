// Package directory holds the clinic's client records: pet owners and
// their patients. Codes are minted by the sequence allocator and are
// immutable once assigned.
package directory

import (
	"strings"
	"time"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// OwnerStatus represents the status of an owner record
type OwnerStatus string

const (
	OwnerStatusActive   OwnerStatus = "active"
	OwnerStatusInactive OwnerStatus = "inactive"
)

// Owner represents a pet owner (the clinic's customer)
type Owner struct {
	shared.BaseAggregateRoot
	Code      string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	FirstName string      `gorm:"type:varchar(100);not null"`
	LastName  string      `gorm:"type:varchar(100);not null"`
	Phone     string      `gorm:"type:varchar(50);index"`
	Email     string      `gorm:"type:varchar(200);index"`
	Address   string      `gorm:"type:text"`
	Status    OwnerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Owner) TableName() string {
	return "owners"
}

// NewOwner creates a new owner carrying an allocator-minted code
func NewOwner(code, firstName, lastName, phone, email string) (*Owner, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner code cannot be empty")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner name cannot be empty")
	}

	owner := &Owner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Phone:             phone,
		Email:             email,
		Status:            OwnerStatusActive,
	}

	owner.AddDomainEvent(NewOwnerRegisteredEvent(owner))

	return owner, nil
}

// FullName returns the owner's display name
func (o *Owner) FullName() string {
	return o.FirstName + " " + o.LastName
}

// Update updates the owner's contact information
func (o *Owner) Update(firstName, lastName, phone, email, address string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Owner name cannot be empty")
	}
	o.FirstName = strings.TrimSpace(firstName)
	o.LastName = strings.TrimSpace(lastName)
	o.Phone = phone
	o.Email = email
	o.Address = address
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Deactivate marks the owner record inactive
func (o *Owner) Deactivate() {
	o.Status = OwnerStatusInactive
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
