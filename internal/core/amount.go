// Package core provides the transaction domain model, the monthly
// aggregator and the advisor rule engine. Everything here is pure: no
// storage, no network, no clocks beyond what callers pass in.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseValue converts a user-typed monetary amount to a float64 rounded
// to two decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative amounts are rejected with ErrNegativeValue; anything that is
// not a number with ErrInvalidValue.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidValue
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidValue
	}
	if d.IsNegative() {
		return 0, ErrNegativeValue
	}
	v, _ := d.Round(2).Float64()
	return v, nil
}
