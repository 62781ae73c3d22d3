package http

import (
	"fintrack/internal/core"
	"fintrack/internal/finance"
)

// Commands shared by the panels and the API. Each reads its fields from a
// parsed body, reports every bad field at once and then applies the domain
// validation.

type fieldSource interface{ Get(string) string }

func readBudget(src fieldSource) (finance.Budget, error) {
	f := newFieldReader(src)
	b := finance.Budget{
		Income:   f.amount("income", "monthly income"),
		Expenses: f.amount("expenses", "monthly expenses"),
	}
	if err := f.err(); err != nil {
		return b, err
	}
	return b, b.Validate()
}

func readGoal(src fieldSource) (finance.GoalPlan, error) {
	f := newFieldReader(src)
	g := finance.GoalPlan{
		Name:   f.text("name"),
		Target: f.amount("target", "target amount"),
		Years:  f.years("years", "timeframe"),
	}
	if err := f.err(); err != nil {
		return g, err
	}
	return g, g.Validate()
}

func readSIP(src fieldSource) (finance.SIPPlan, error) {
	f := newFieldReader(src)
	p := finance.SIPPlan{
		Monthly:         f.amount("monthly", "monthly investment"),
		AnnualReturnPct: f.percent("rate", "expected annual return"),
		Years:           f.years("years", "investment duration"),
	}
	timing, err := finance.ParseTiming(f.text("timing"))
	if err != nil {
		f.fail("timing must be due or ordinary")
	}
	if f.flag("ordinary") {
		timing = finance.Ordinary
	}
	p.Timing = timing
	if err := f.err(); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func readLoan(src fieldSource) (finance.LoanTerms, bool, error) {
	f := newFieldReader(src)
	t := finance.LoanTerms{
		Principal:         f.amount("amount", "loan amount"),
		AnnualInterestPct: f.percent("rate", "annual interest rate"),
		TenureYears:       f.years("years", "loan tenure"),
	}
	schedule := f.flag("schedule")
	if err := f.err(); err != nil {
		return t, schedule, err
	}
	return t, schedule, t.Validate()
}

// readExpense leaves domain validation to the record service.
func readExpense(src fieldSource) (core.ExpenseEntry, error) {
	f := newFieldReader(src)
	e := core.ExpenseEntry{
		Date:     f.date("date"),
		Category: f.category("category"),
		Amount:   f.amount("amount", "amount"),
	}
	return e, f.err()
}

func readInvestment(src fieldSource) (core.InvestmentEntry, error) {
	f := newFieldReader(src)
	i := core.InvestmentEntry{
		Asset:    f.text("asset"),
		Invested: f.amount("invested", "invested amount"),
		Current:  f.amount("current", "current value"),
	}
	return i, f.err()
}
