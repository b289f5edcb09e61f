package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Receita      TransactionType = "Receita"
	Despesa      TransactionType = "Despesa"
	Investimento TransactionType = "Investimento"
)

type (
	TransactionType string

	// Month is one of the twelve Portuguese month names used on the wire.
	Month string

	Transaction struct {
		ID          string
		OwnerID     string
		Month       Month
		Year        int
		Category    string
		Type        TransactionType
		Value       float64
		Observation string
		CreatedAt   time.Time
		Paid        bool
		PaymentDate *time.Time
	}

	// TransactionUpdate carries optional field edits. Nil means "leave as is".
	// ID and OwnerID are deliberately absent: they are immutable.
	TransactionUpdate struct {
		Month       *Month
		Year        *int
		Category    *string
		Type        *TransactionType
		Value       *float64
		Observation *string
	}
)

// Months lists the canonical month names in calendar order.
var Months = [12]Month{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var (
	ErrInvalidMonth   = errors.New("invalid month")
	ErrInvalidType    = errors.New("invalid transaction type")
	ErrInvalidYear    = errors.New("invalid year")
	ErrNegativeValue  = errors.New("value cannot be negative")
	ErrInvalidValue   = errors.New("invalid value")
	ErrEmptyCategory  = errors.New("empty category")
	ErrUnpaidWithDate = errors.New("payment date set on unpaid transaction")
)

// Index returns the zero-based calendar position of the month, or -1.
func (m Month) Index() int {
	for i, name := range Months {
		if name == m {
			return i
		}
	}
	return -1
}

func (m Month) Validate() error {
	if m.Index() < 0 {
		return ErrInvalidMonth
	}
	return nil
}

// Next returns the following month, rolling the year forward after Dezembro.
func (m Month) Next(year int) (Month, int) {
	i := m.Index()
	if i < 0 {
		return m, year
	}
	if i == len(Months)-1 {
		return Months[0], year + 1
	}
	return Months[i+1], year
}

func (t TransactionType) Validate() error {
	switch t {
	case Receita, Despesa, Investimento:
		return nil
	default:
		return ErrInvalidType
	}
}

func (t Transaction) Validate() error {
	if err := t.Month.Validate(); err != nil {
		return err
	}
	if t.Year < 1900 || t.Year > 9999 {
		return ErrInvalidYear
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Value < 0 {
		return ErrNegativeValue
	}
	if len(strings.TrimSpace(t.Category)) == 0 {
		return ErrEmptyCategory
	}
	if len(t.Category) > 200 {
		return errors.New("category too long (max 200 characters)")
	}
	if len(t.Observation) > 500 {
		return errors.New("observation too long (max 500 characters)")
	}
	if !t.Paid && t.PaymentDate != nil {
		return ErrUnpaidWithDate
	}
	return nil
}

func (u TransactionUpdate) Validate() error {
	if u.Month != nil {
		if err := u.Month.Validate(); err != nil {
			return err
		}
	}
	if u.Year != nil && (*u.Year < 1900 || *u.Year > 9999) {
		return ErrInvalidYear
	}
	if u.Type != nil {
		if err := u.Type.Validate(); err != nil {
			return err
		}
	}
	if u.Value != nil && *u.Value < 0 {
		return ErrNegativeValue
	}
	if u.Category != nil && len(strings.TrimSpace(*u.Category)) == 0 {
		return ErrEmptyCategory
	}
	return nil
}

// IsEmpty reports whether the update would change nothing.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Month == nil && u.Year == nil && u.Category == nil &&
		u.Type == nil && u.Value == nil && u.Observation == nil
}
