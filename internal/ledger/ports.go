// Package ledger defines the outbound port for mirroring recorded
// transactions to an external ledger.
package ledger

import (
	"context"

	"dompet/internal/core"
)

// Appender writes one transaction row to the external ledger and returns
// an opaque reference to where it landed.
type Appender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) (ref string, err error)
}
