package http

import (
	"fintrack/internal/core"
	"fintrack/internal/education"
	"fintrack/internal/finance"
	"fintrack/internal/services"

	"github.com/shopspring/decimal"
)

type navItem struct {
	Path   string
	Label  string
	Active bool
}

var panels = []navItem{
	{Path: "/education", Label: "Educational Resources"},
	{Path: "/budget", Label: "Budget Planner"},
	{Path: "/expenses", Label: "Expense Tracker"},
	{Path: "/planning", Label: "Financial Planning"},
	{Path: "/sip", Label: "SIP Calculator"},
	{Path: "/emi", Label: "EMI Calculator"},
	{Path: "/investments", Label: "Investment Portfolio"},
}

// page is embedded in every view; its fields are promoted to templates.
type page struct {
	Title    string
	Nav      []navItem
	Error    string
	Currency string
}

func (s *Server) newPage(title, path string) page {
	nav := make([]navItem, len(panels))
	for i, p := range panels {
		p.Active = p.Path == path
		nav[i] = p
	}
	return page{Title: title, Nav: nav, Currency: s.currency}
}

type indexView struct {
	page
	Panels []navItem
}

type educationView struct {
	page
	Topics []education.Topic
}

// budgetView echoes the submitted form and the result, when there is one.
type budgetView struct {
	page
	Income   string
	Expenses string
	Result   *budgetResult
}

type budgetResult struct {
	Savings  decimal.Decimal
	Rate     decimal.Decimal
	Width    int
	Negative bool
}

type planningView struct {
	page
	Name   string
	Target string
	Years  string
	Result *planningResult
}

type planningResult struct {
	Name    string
	Monthly decimal.Decimal
	Months  int
}

type sipView struct {
	page
	Monthly  string
	Rate     string
	Years    string
	Ordinary bool
	Result   *sipResult
}

type sipResult struct {
	finance.SIPProjection
	Timing        string
	InvestedWidth int
	GainsWidth    int
}

type emiView struct {
	page
	Amount   string
	Rate     string
	Years    string
	Schedule bool
	Result   *emiResult
}

type emiResult struct {
	finance.LoanSummary
	Rows []finance.Installment
}

type bar struct {
	Label    string
	Amount   decimal.Decimal
	Width    int
	Negative bool
}

type expensesView struct {
	page
	Categories []core.Category
	Date       string
	Category   string
	Amount     string
	Entries    []core.ExpenseEntry
	Bars       []bar
	Total      decimal.Decimal
}

func newExpensesView(p page, sum services.ExpenseSummary) expensesView {
	v := expensesView{
		page:       p,
		Categories: core.Categories,
		Date:       core.Today().String(),
		Entries:    sum.Entries,
		Total:      sum.Total,
	}
	for _, t := range sum.Totals {
		v.Bars = append(v.Bars, bar{
			Label:  t.Category.String(),
			Amount: t.Amount,
			Width:  barWidth(t.Amount, sum.Largest),
		})
	}
	return v
}

type investmentRow struct {
	core.InvestmentEntry
	ProfitLoss decimal.Decimal
}

type investmentsView struct {
	page
	Asset     string
	Invested  string
	Current   string
	Rows      []investmentRow
	Bars      []bar
	Portfolio core.PortfolioTotals
}

func newInvestmentsView(p page, sum services.InvestmentSummary) investmentsView {
	v := investmentsView{page: p, Portfolio: sum.Portfolio}
	for i, e := range sum.Entries {
		pl := sum.Rows[i].ProfitLoss
		v.Rows = append(v.Rows, investmentRow{InvestmentEntry: e, ProfitLoss: pl})
		v.Bars = append(v.Bars, bar{
			Label:    e.Asset,
			Amount:   pl,
			Width:    barWidth(pl, sum.Largest),
			Negative: pl.IsNegative(),
		})
	}
	return v
}
