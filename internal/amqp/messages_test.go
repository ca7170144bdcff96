package amqp

import (
	"testing"

	"github.com/google/uuid"
)

func TestTransactionExportMessageRoundTrip(t *testing.T) {
	owner := uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd")
	msg := NewTransactionExportMessage(42, owner)

	if msg.Timestamp.IsZero() {
		t.Error("new message has no timestamp")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := TransactionExportMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.ID != 42 {
		t.Errorf("ID = %d, want 42", decoded.ID)
	}
	if decoded.OwnerID != owner {
		t.Errorf("OwnerID = %s, want %s", decoded.OwnerID, owner)
	}
}

func TestTransactionExportMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionExportMessageFromJSON([]byte("not json")); err == nil {
		t.Error("FromJSON accepted malformed input")
	}
}
