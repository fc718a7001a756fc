package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// ActivityLogHandler writes every domain event to the structured log,
// giving the clinic an audit trail of registrations, invoicing and
// payments without a separate store.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger.Named("activity")}
}

// Handle implements shared.EventHandler
func (h *ActivityLogHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	)
	return nil
}

// EventTypes lists every event the clinic's aggregates raise.
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		"OwnerRegistered",
		"PatientRegistered",
		"InvoiceCreated",
		"PaymentReceived",
		"InvoicePaid",
		"InvoiceFinalized",
	}
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
