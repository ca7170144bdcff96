package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionExportMessage asks the worker to mirror one recorded
// transaction to the external ledger. It carries only identifiers; the
// worker loads the full row from storage so the queue never holds stale
// amounts.
type TransactionExportMessage struct {
	ID        int64     `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionExportMessage(id int64, owner uuid.UUID) *TransactionExportMessage {
	return &TransactionExportMessage{
		ID:        id,
		OwnerID:   owner,
		Timestamp: time.Now(),
	}
}

func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
