// Package memory implements the store ports in process memory. It backs
// the default development mode and the test suites; data is lost on
// restart.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/store"
)

type Store struct {
	mu           sync.Mutex
	seq          int64
	transactions map[string]core.Transaction
	users        map[string]store.User
	emails       map[string]string // email -> user id
}

func New() *Store {
	return &Store{
		transactions: make(map[string]core.Transaction),
		users:        make(map[string]store.User),
		emails:       make(map[string]string),
	}
}

func (s *Store) nextID() string {
	s.seq++
	return "mem:" + strconv.FormatInt(s.seq, 10)
}

// Insert implements store.TransactionStore.
func (s *Store) Insert(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID()
	s.transactions[t.ID] = t
	return t.ID, nil
}

// List implements store.TransactionStore.
func (s *Store) List(_ context.Context, ownerID string, year int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if year != 0 && t.Year != year {
			continue
		}
		out = append(out, t)
	}
	// Most recent first, id as a stable tiebreak for equal timestamps.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Update implements store.TransactionStore.
func (s *Store) Update(_ context.Context, ownerID, id string, fields core.TransactionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrNotFound
	}
	if fields.Month != nil {
		t.Month = *fields.Month
	}
	if fields.Year != nil {
		t.Year = *fields.Year
	}
	if fields.Category != nil {
		t.Category = *fields.Category
	}
	if fields.Type != nil {
		t.Type = *fields.Type
	}
	if fields.Value != nil {
		t.Value = *fields.Value
	}
	if fields.Observation != nil {
		t.Observation = *fields.Observation
	}
	s.transactions[id] = t
	return nil
}

// Delete implements store.TransactionStore.
func (s *Store) Delete(_ context.Context, ownerID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	delete(s.transactions, id)
	return true, nil
}

// SetPaid implements store.TransactionStore.
func (s *Store) SetPaid(_ context.Context, ownerID, id string, paid bool, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrNotFound
	}
	t.Paid = paid
	if paid {
		at := paidAt
		t.PaymentDate = &at
	} else {
		t.PaymentDate = nil
	}
	s.transactions[id] = t
	return nil
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(_ context.Context, u store.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[u.Email]; taken {
		return "", store.ErrEmailTaken
	}
	u.ID = s.nextID()
	s.users[u.ID] = u
	s.emails[u.Email] = u.ID
	return u.ID, nil
}

// FindUserByEmail implements store.UserStore.
func (s *Store) FindUserByEmail(_ context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return s.users[id], nil
}

// FindUserByID implements store.UserStore.
func (s *Store) FindUserByID(_ context.Context, id string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return u, nil
}
