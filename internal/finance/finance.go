// Package finance implements the closed-form personal finance formulas used by
// the dashboard calculators: budget savings, savings goals, SIP projections and
// loan EMI with amortization.
//
// Every function is pure. Arithmetic runs on decimal values carrying
// Precision fractional digits; callers round for display.
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept by intermediate results.
const Precision int32 = 28

const (
	MaxYears   = 100
	MaxRatePct = 100
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDivisionByZero = errors.New("division by zero")
)

// MaxAmount bounds every input amount and every derived total, so results
// stay representable in minor currency units.
var MaxAmount = decimal.New(1, 15)

var (
	one         = decimal.NewFromInt(1)
	twelve      = decimal.NewFromInt(12)
	hundred     = decimal.NewFromInt(100)
	monthsInPct = decimal.NewFromInt(1200)
)

// monthlyRate converts an annual percentage to a monthly fraction.
func monthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.DivRound(monthsInPct, Precision)
}

// pow raises base to a non-negative integer power by squaring.
func pow(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(Precision)
		}
		base = base.Mul(base).Round(Precision)
		n >>= 1
	}
	return result
}

func div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, Precision)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func checkAmount(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid("%s must not be negative", name)
	}
	if v.GreaterThan(MaxAmount) {
		return invalid("%s must not exceed %s", name, MaxAmount.StringFixed(0))
	}
	return nil
}

// checkResult rejects a derived total above MaxAmount.
func checkResult(name string, v decimal.Decimal) error {
	if v.Abs().GreaterThan(MaxAmount) {
		return invalid("%s exceeds %s, use a smaller amount, rate or duration", name, MaxAmount.StringFixed(0))
	}
	return nil
}

func checkRate(name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(MaxRatePct)) {
		return invalid("%s must be between 0 and %d", name, MaxRatePct)
	}
	return nil
}

func checkYears(name string, years int) error {
	if years < 1 || years > MaxYears {
		return invalid("%s must be between 1 and %d", name, MaxYears)
	}
	return nil
}
