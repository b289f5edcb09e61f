package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/store"
)

func newTx(owner string, month core.Month, year int) core.Transaction {
	return core.Transaction{
		OwnerID:   owner,
		Month:     month,
		Year:      year,
		Category:  "Salário",
		Type:      core.Receita,
		Value:     100,
		CreatedAt: time.Now(),
	}
}

func TestInsertThenList(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Insert(ctx, newTx("alice", "Janeiro", 2025))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.List(ctx, "alice", 2025)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected the inserted record, got %+v", got)
	}
	if got[0].Paid {
		t.Fatalf("new transaction must start unpaid")
	}
}

func TestListFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _ = s.Insert(ctx, newTx("alice", "Janeiro", 2024))
	_, _ = s.Insert(ctx, newTx("alice", "Janeiro", 2025))
	_, _ = s.Insert(ctx, newTx("bob", "Janeiro", 2025))

	got, _ := s.List(ctx, "alice", 2025)
	if len(got) != 1 {
		t.Fatalf("year filter: expected 1, got %d", len(got))
	}
	got, _ = s.List(ctx, "alice", 0)
	if len(got) != 2 {
		t.Fatalf("all years: expected 2, got %d", len(got))
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, _ := s.Insert(ctx, newTx("alice", "Janeiro", 2025))

	if got, _ := s.List(ctx, "bob", 0); len(got) != 0 {
		t.Fatalf("bob must not see alice's records: %+v", got)
	}

	v := 50.0
	if err := s.Update(ctx, "bob", id, core.TransactionUpdate{Value: &v}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner update: got %v, want ErrNotFound", err)
	}
	if deleted, _ := s.Delete(ctx, "bob", id); deleted {
		t.Fatalf("cross-owner delete must be a no-op")
	}
	if err := s.SetPaid(ctx, "bob", id, true, time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner set paid: got %v, want ErrNotFound", err)
	}

	// Alice still sees the untouched record.
	got, _ := s.List(ctx, "alice", 0)
	if len(got) != 1 || got[0].Value != 100 {
		t.Fatalf("record should survive intact: %+v", got)
	}
}

func TestSetPaidRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, _ := s.Insert(ctx, newTx("alice", "Janeiro", 2025))

	paidAt := time.Now()
	if err := s.SetPaid(ctx, "alice", id, true, paidAt); err != nil {
		t.Fatalf("set paid: %v", err)
	}
	got, _ := s.List(ctx, "alice", 0)
	if !got[0].Paid || got[0].PaymentDate == nil {
		t.Fatalf("expected paid with payment date, got %+v", got[0])
	}

	if err := s.SetPaid(ctx, "alice", id, false, time.Now()); err != nil {
		t.Fatalf("unset paid: %v", err)
	}
	got, _ = s.List(ctx, "alice", 0)
	if got[0].Paid || got[0].PaymentDate != nil {
		t.Fatalf("expected cleared payment date, got %+v", got[0])
	}
}

func TestDeleteMissReturnsFalse(t *testing.T) {
	s := New()
	deleted, err := s.Delete(context.Background(), "alice", "mem:999")
	if err != nil {
		t.Fatalf("delete miss must not error: %v", err)
	}
	if deleted {
		t.Fatalf("delete miss must report false")
	}
}

func TestUpdateRewritesOnlyGivenFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, _ := s.Insert(ctx, newTx("alice", "Janeiro", 2025))

	month := core.Month("Março")
	v := 42.5
	if err := s.Update(ctx, "alice", id, core.TransactionUpdate{Month: &month, Value: &v}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.List(ctx, "alice", 0)
	if got[0].Month != "Março" || got[0].Value != 42.5 {
		t.Fatalf("edits not applied: %+v", got[0])
	}
	if got[0].Category != "Salário" || got[0].Type != core.Receita {
		t.Fatalf("untouched fields changed: %+v", got[0])
	}
}

func TestUserRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateUser(ctx, store.User{Email: "a@b.com", Name: "A", PasswordHash: []byte("h")})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := s.CreateUser(ctx, store.User{Email: "a@b.com"}); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	byEmail, err := s.FindUserByEmail(ctx, "a@b.com")
	if err != nil || byEmail.ID != id {
		t.Fatalf("find by email: %v %+v", err, byEmail)
	}
	byID, err := s.FindUserByID(ctx, id)
	if err != nil || byID.Email != "a@b.com" {
		t.Fatalf("find by id: %v %+v", err, byID)
	}
	if _, err := s.FindUserByID(ctx, "mem:404"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("missing user: got %v, want ErrUserNotFound", err)
	}
}
