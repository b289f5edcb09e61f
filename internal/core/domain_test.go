package core

import (
	"errors"
	"testing"
	"time"
)

func TestMonthValidate(t *testing.T) {
	cases := []struct {
		m  Month
		ok bool
	}{
		{"Janeiro", true},
		{"Dezembro", true},
		{"January", false},
		{"janeiro", false},
		{"", false},
	}
	for i, tc := range cases {
		err := tc.m.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMonthNext(t *testing.T) {
	cases := []struct {
		m        Month
		year     int
		wantM    Month
		wantYear int
	}{
		{"Janeiro", 2024, "Fevereiro", 2024},
		{"Novembro", 2024, "Dezembro", 2024},
		{"Dezembro", 2024, "Janeiro", 2025},
	}
	for i, tc := range cases {
		m, y := tc.m.Next(tc.year)
		if m != tc.wantM || y != tc.wantYear {
			t.Fatalf("case %d: got %s/%d, want %s/%d", i, m, y, tc.wantM, tc.wantYear)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Month:    "Março",
		Year:     2025,
		Category: "Salário",
		Type:     Receita,
		Value:    1500.50,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	now := time.Now()
	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Month: "March", Year: 2025, Category: "x", Type: Receita, Value: 1}, ErrInvalidMonth},
		{Transaction{Month: "Março", Year: 0, Category: "x", Type: Receita, Value: 1}, ErrInvalidYear},
		{Transaction{Month: "Março", Year: 2025, Category: "x", Type: "Renda", Value: 1}, ErrInvalidType},
		{Transaction{Month: "Março", Year: 2025, Category: "x", Type: Despesa, Value: -1}, ErrNegativeValue},
		{Transaction{Month: "Março", Year: 2025, Category: "  ", Type: Despesa, Value: 1}, ErrEmptyCategory},
		{Transaction{Month: "Março", Year: 2025, Category: "x", Type: Despesa, Value: 1, PaymentDate: &now}, ErrUnpaidWithDate},
	}
	for i, tc := range bads {
		err := tc.tx.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestTransactionUpdateValidate(t *testing.T) {
	badMonth := Month("Octubre")
	negative := -5.0
	if err := (TransactionUpdate{Month: &badMonth}).Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if err := (TransactionUpdate{Value: &negative}).Validate(); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
	if !(TransactionUpdate{}).IsEmpty() {
		t.Fatalf("zero update should be empty")
	}
	v := 10.0
	if (TransactionUpdate{Value: &v}).IsEmpty() {
		t.Fatalf("update with value should not be empty")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		err  error
	}{
		{"12.34", 12.34, nil},
		{"12,34", 12.34, nil},
		{"0", 0, nil},
		{"1234.567", 1234.57, nil},
		{"", 0, ErrInvalidValue},
		{"abc", 0, ErrInvalidValue},
		{"-5", 0, ErrNegativeValue},
	}
	for i, tc := range cases {
		got, err := ParseValue(tc.in)
		if !errors.Is(err, tc.err) {
			t.Fatalf("case %d (%q): got err %v, want %v", i, tc.in, err, tc.err)
		}
		if err == nil && got != tc.want {
			t.Fatalf("case %d (%q): got %v, want %v", i, tc.in, got, tc.want)
		}
	}
}
