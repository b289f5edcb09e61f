package amqp

import (
	"encoding/json"
	"time"
)

// Event names carried on the queue.
const (
	EventCreated = "transaction.created"
	EventDeleted = "transaction.deleted"
	EventPaid    = "transaction.paid"
	EventUpdated = "transaction.updated"
)

// TransactionEvent is a lightweight notification: it carries ids only,
// consumers fetch whatever else they need from the store.
type TransactionEvent struct {
	Event         string    `json:"event"`
	TransactionID string    `json:"transaction_id"`
	OwnerID       string    `json:"owner_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(event, transactionID, ownerID string) *TransactionEvent {
	return &TransactionEvent{
		Event:         event,
		TransactionID: transactionID,
		OwnerID:       ownerID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON creates a message from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
