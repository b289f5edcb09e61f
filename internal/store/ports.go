// Package store defines the persistence ports the services depend on.
// Implementations live in the mongo and memory subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"financas/internal/core"
)

var (
	// ErrNotFound is returned when an operation targets a record that
	// does not exist or does not belong to the calling owner. The two
	// cases are deliberately indistinguishable.
	ErrNotFound = errors.New("transaction not found")

	// ErrEmailTaken is returned when registering an already-known email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a user lookup matches nothing.
	ErrUserNotFound = errors.New("user not found")
)

// TransactionStore persists the ledger. Every operation is scoped to an
// owner; mutations match on id AND owner in a single filtered operation
// so there is no check-then-mutate window.
type TransactionStore interface {
	// Insert stores a new transaction and returns its id.
	Insert(ctx context.Context, t core.Transaction) (string, error)

	// List returns the owner's transactions, most recent first.
	// year == 0 means all years.
	List(ctx context.Context, ownerID string, year int) ([]core.Transaction, error)

	// Update applies the given field edits. ErrNotFound when no owned
	// record matched.
	Update(ctx context.Context, ownerID, id string, fields core.TransactionUpdate) error

	// Delete removes a transaction. The bool reports whether anything
	// was deleted; a miss is not an error.
	Delete(ctx context.Context, ownerID, id string) (bool, error)

	// SetPaid flips the payment flag. paidAt is stored as payment_date
	// when paid, and cleared otherwise. ErrNotFound when no owned
	// record matched.
	SetPaid(ctx context.Context, ownerID, id string, paid bool, paidAt time.Time) error
}

// User is the persisted account record. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Name         string
	CreatedAt    time.Time
}

// UserStore persists accounts for the auth gate.
type UserStore interface {
	// CreateUser stores a new user and returns its id. ErrEmailTaken
	// when the email is already registered.
	CreateUser(ctx context.Context, u User) (string, error)

	// FindUserByEmail returns ErrUserNotFound on a miss.
	FindUserByEmail(ctx context.Context, email string) (User, error)

	// FindUserByID returns ErrUserNotFound on a miss.
	FindUserByID(ctx context.Context, id string) (User, error)
}
