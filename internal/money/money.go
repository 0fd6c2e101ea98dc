// Package money provides a fixed-point minor-unit representation for
// monetary amounts.
//
// Balances and expense amounts are stored as integer cents so that the
// group zero-sum invariant can be checked exactly instead of within a
// floating-point tolerance.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a string cannot be parsed as a
// positive monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is a signed monetary amount in minor units (1/100).
type Cents int64

// Parse converts a decimal string to Cents with half-up rounding on the
// third decimal place. It accepts both dot (12.34) and comma (12,34)
// separators and rejects empty, signed, zero, and malformed input.
//
// Examples:
//
//	Parse("12.34")  -> 1234, nil
//	Parse("12,34")  -> 1234, nil
//	Parse("12.345") -> 1235, nil (rounds up)
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take the first two fractional digits, half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return Cents(cents), nil
}

// String renders the amount as a decimal string, e.g. "12.34".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float returns the major-unit value as a float64 for display purposes.
// Use Cents for all calculations to avoid floating-point drift.
func (c Cents) Float() float64 {
	return float64(c) / 100.0
}
