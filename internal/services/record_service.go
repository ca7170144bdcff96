package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store"
)

// ExportPublisher queues a recorded transaction for mirroring to the
// external ledger.
type ExportPublisher interface {
	PublishTransactionExport(ctx context.Context, id int64, owner uuid.UUID) error
}

// RecordService persists new transactions and queues them for export.
type RecordService struct {
	store  store.TransactionStore
	events ExportPublisher
}

// NewRecordService creates the service. events may be nil; recording then
// skips the export queue and the periodic worker sweep picks the rows up.
func NewRecordService(st store.TransactionStore, events ExportPublisher) *RecordService {
	return &RecordService{store: st, events: events}
}

// Record validates and inserts tx, then publishes an export event. The
// publish is best-effort: the transaction is already durable, so a broker
// failure is logged and the insert still succeeds.
func (s *RecordService) Record(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	stored, err := s.store.InsertTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.events != nil {
		if err := s.events.PublishTransactionExport(ctx, stored.ID, stored.OwnerID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export event",
				"id", stored.ID, "error", err)
		}
	}

	return stored, nil
}
