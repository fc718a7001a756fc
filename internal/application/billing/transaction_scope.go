package billing

import (
	"context"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/scheduling"
)

// TransactionScope provides transactional access to billing repositories.
// Every ledger mutation runs inside one scope: the invoice row is fetched
// under a row lock, derived state is recomputed and written, and any
// appointment side effect commits or rolls back with it.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// AppointmentRepo returns the appointment repository scoped to the current transaction
	AppointmentRepo() scheduling.AppointmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	invoiceRepo     billing.InvoiceRepository
	appointmentRepo scheduling.AppointmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	appointmentRepo scheduling.AppointmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:     invoiceRepo,
		appointmentRepo: appointmentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// AppointmentRepo returns the appointment repository.
func (s *NoOpTransactionScope) AppointmentRepo() scheduling.AppointmentRepository {
	return s.appointmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
