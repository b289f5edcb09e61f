// Package services holds the application layer between HTTP handlers
// and storage. Services own validation orchestration, event publishing
// and caching policy; handlers only translate requests and responses.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/store"
)

// EventPublisher notifies interested consumers about ledger mutations.
// A nil publisher disables notifications entirely.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// LedgerService implements the user-scoped transaction operations.
type LedgerService struct {
	store  store.TransactionStore
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewLedgerService wires a ledger over the given store. events may be nil.
func NewLedgerService(s store.TransactionStore, events EventPublisher) *LedgerService {
	return &LedgerService{
		store:  s,
		events: events,
		logger: log.ForComponent("ledger"),
		now:    time.Now,
	}
}

// Add validates and persists a new transaction for ownerID. New entries
// always start unpaid regardless of the input flags.
func (s *LedgerService) Add(ctx context.Context, ownerID string, tx core.Transaction) (core.Transaction, error) {
	tx.OwnerID = ownerID
	tx.Paid = false
	tx.PaymentDate = nil
	tx.CreatedAt = s.now().UTC()

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.Insert(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID = id

	s.publish(ctx, amqp.EventCreated, tx.ID, ownerID)
	return tx, nil
}

// AddRecurring persists the transaction for repeat consecutive months
// starting at tx.Month, rolling Dezembro into Janeiro of the next year.
// On failure the already inserted prefix is kept and returned.
func (s *LedgerService) AddRecurring(ctx context.Context, ownerID string, tx core.Transaction, repeat int) ([]core.Transaction, error) {
	if repeat < 1 {
		repeat = 1
	}

	month, year := tx.Month, tx.Year
	inserted := make([]core.Transaction, 0, repeat)
	for i := 0; i < repeat; i++ {
		entry := tx
		entry.Month = month
		entry.Year = year

		created, err := s.Add(ctx, ownerID, entry)
		if err != nil {
			return inserted, err
		}
		inserted = append(inserted, created)

		month, year = month.Next(year)
	}
	return inserted, nil
}

// List returns the owner's transactions, most recent first. year == 0
// means all years.
func (s *LedgerService) List(ctx context.Context, ownerID string, year int) ([]core.Transaction, error) {
	txs, err := s.store.List(ctx, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Update applies the non-nil fields of upd to the owner's transaction.
func (s *LedgerService) Update(ctx context.Context, ownerID, id string, upd core.TransactionUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	if err := upd.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, ownerID, id, upd); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventUpdated, id, ownerID)
	return nil
}

// Delete removes the owner's transaction. A missing id is not an error;
// the bool reports whether anything was removed.
func (s *LedgerService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	if removed {
		s.publish(ctx, amqp.EventDeleted, id, ownerID)
	}
	return removed, nil
}

// SetPaid toggles the paid flag. Marking paid stamps the payment date
// with the current time; clearing it removes the date.
func (s *LedgerService) SetPaid(ctx context.Context, ownerID, id string, paid bool) error {
	if err := s.store.SetPaid(ctx, ownerID, id, paid, s.now().UTC()); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventPaid, id, ownerID)
	return nil
}

// publish sends a ledger event on a best-effort basis. Failures are
// logged and never surfaced to the caller.
func (s *LedgerService) publish(ctx context.Context, event, txID, ownerID string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewTransactionEvent(event, txID, ownerID)
	if err := s.events.PublishTransactionEvent(ctx, msg); err != nil {
		s.logger.Warn("failed to publish transaction event",
			"event", event, "transaction_id", txID, "error", err)
	}
}
