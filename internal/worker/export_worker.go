// Package worker mirrors recorded transactions to the external ledger.
// It consumes export messages from AMQP and periodically sweeps storage
// for rows a lost message might have left behind.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"dompet/internal/amqp"
	"dompet/internal/ledger"
	"dompet/internal/storage"
)

type ExportWorker struct {
	storage   *storage.Repository
	ledger    ledger.Appender
	batchSize int
}

func NewExportWorker(st *storage.Repository, lg ledger.Appender, batchSize int) *ExportWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &ExportWorker{storage: st, ledger: lg, batchSize: batchSize}
}

// HandleExportMessage processes one queued export. Exporting is idempotent
// at this level: a redelivered message for an already-exported transaction
// is acknowledged without writing a second row.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	exported, err := w.storage.IsExported(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("check export state: %w", err)
	}
	if exported {
		slog.InfoContext(ctx, "Transaction already exported, skipping", "id", msg.ID)
		return nil
	}

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	ref, err := w.ledger.AppendTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkExported(ctx, tx.ID); err != nil {
		// The row is in the ledger but not marked; the next sweep will
		// retry and the idempotency check above prevents a duplicate only
		// for redeliveries, so surface the error.
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported", "id", tx.ID, "ref", ref)
	return nil
}

// ProcessPending exports transactions whose queue message never arrived,
// oldest first, up to the batch size. Individual failures are logged and
// the sweep moves on; the next tick retries them.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListUnexported(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unexported transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Sweeping unexported transactions", "count", len(pending))

	for _, tx := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ref, err := w.ledger.AppendTransaction(ctx, tx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				"id", tx.ID, "error", err)
			continue
		}
		if err := w.storage.MarkExported(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction exported",
				"id", tx.ID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Transaction exported", "id", tx.ID, "ref", ref)
	}
	return nil
}
