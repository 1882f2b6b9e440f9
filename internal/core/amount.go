// Package core provides the domain types shared by the calculation engine
// and the surrounding services.
//
// This file contains parsing of monetary amounts from user input. All money
// in the system is represented as decimal.Decimal; float64 never touches an
// amount on its way into the ledger.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseDecimalAmount converts a user-supplied decimal string to an exact
// decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The
// result is always strictly positive; signs, zero and malformed input are
// rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalAmount("1234.56") -> 1234.56, nil
//	ParseDecimalAmount("1234,56") -> 1234.56, nil
//	ParseDecimalAmount("-5")      -> 0, ErrInvalidAmount
func ParseDecimalAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed; sign lives on Kind
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Percent converts a percentage value (e.g. 20 for 20%) into its fractional
// multiplier (0.20). Shared by the pricing and break-even formulas.
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(decimal.NewFromInt(100))
}
