// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and formatting decimal amounts in a display currency.
package core

import (
	"math"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = money.INR

// MaxAmount is the largest amount a record may carry. ParseAmount already
// stays below it by limiting the integer part to 15 digits.
var MaxAmount = decimal.New(1, 15)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a decimal string to a non-negative amount with two
// fractional digits.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is a valid amount.
// Returns ErrInvalidAmount for signs, invalid formats or empty input.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("0")      -> 0, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		// a lone "." is not a number
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if len(intPart) > 15 {
		return decimal.Zero, ErrInvalidAmount
	}
	literal := intPart
	if fracPart != "" {
		literal += "." + fracPart
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// FormatMoney renders d in the given currency, e.g. "₹8,791.59".
// Unknown currency codes fall back to DefaultCurrency.
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return formatLarge(minor, cur)
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

// formatLarge lays out minor units that do not fit in an int64 using the
// currency's template and separators.
func formatLarge(minor decimal.Decimal, cur *money.Currency) string {
	digits := minor.Abs().StringFixed(0)
	if len(digits) <= cur.Fraction {
		digits = strings.Repeat("0", cur.Fraction-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-cur.Fraction], digits[len(digits)-cur.Fraction:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(cur.Thousand)
		}
		b.WriteRune(r)
	}
	if cur.Fraction > 0 {
		b.WriteString(cur.Decimal)
		b.WriteString(frac)
	}

	out := strings.Replace(cur.Template, "1", b.String(), 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if minor.IsNegative() {
		out = "-" + out
	}
	return out
}
