package amqp

import "testing"

func TestTransactionEventRoundTrip(t *testing.T) {
	msg := NewTransactionEvent(EventCreated, "abc123", "owner1")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	got, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got.Event != EventCreated || got.TransactionID != "abc123" || got.OwnerID != "owner1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestTransactionEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
