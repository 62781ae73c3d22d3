package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Budget is a monthly income/expense estimate.
type Budget struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

func (b Budget) Validate() error {
	if err := checkAmount("income", b.Income); err != nil {
		return err
	}
	return checkAmount("expenses", b.Expenses)
}

// Savings returns income minus expenses. The result may be negative.
func Savings(income, expenses decimal.Decimal) decimal.Decimal {
	return income.Sub(expenses)
}

// SavingsRate returns savings as a fraction of income clamped to [0, 1].
// Zero income yields zero.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	rate := div(Savings(income, expenses), income)
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(one) {
		return one
	}
	return rate
}

// GoalPlan describes a savings target reached over a number of years.
type GoalPlan struct {
	Name   string
	Target decimal.Decimal
	Years  int
}

func (g GoalPlan) Validate() error {
	if len([]rune(strings.TrimSpace(g.Name))) > 100 {
		return invalid("goal name too long (max 100 characters)")
	}
	if err := checkAmount("target amount", g.Target); err != nil {
		return err
	}
	return checkYears("timeframe", g.Years)
}

// MonthlySavingsGoal returns the monthly saving needed to reach target in years.
func MonthlySavingsGoal(target decimal.Decimal, years int) (decimal.Decimal, error) {
	if years <= 0 {
		return decimal.Zero, ErrDivisionByZero
	}
	return div(target, decimal.NewFromInt(int64(years)).Mul(twelve)), nil
}
