package http

import (
	"net/http"

	"fintrack/internal/finance"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
)

// Calculator panels re-render the form with the result. Nothing they do
// touches the session's record store.

func (s *Server) handleBudgetPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "budget.html", budgetView{page: s.newPage("Budget Planner", "/budget")})
}

func (s *Server) handleBudgetSubmit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, false)
	if !ok {
		return
	}
	v := budgetView{
		page:     s.newPage("Budget Planner", "/budget"),
		Income:   p.Get("income"),
		Expenses: p.Get("expenses"),
	}

	b, err := readBudget(p)
	if err != nil {
		s.logCommandError(r, "Budget calculation failed", err, log.OpCalculate)
		v.Error = userMessage(err)
		s.render(w, r, statusFor(err), "budget.html", v)
		return
	}

	savings := finance.Savings(b.Income, b.Expenses)
	rate := finance.SavingsRate(b.Income, b.Expenses)
	v.Result = &budgetResult{
		Savings:  savings,
		Rate:     rate,
		Width:    barWidth(rate, decimal.NewFromInt(1)),
		Negative: savings.IsNegative(),
	}
	s.render(w, r, http.StatusOK, "budget.html", v)
}

func (s *Server) handlePlanningPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "planning.html", planningView{page: s.newPage("Financial Planning", "/planning"), Years: "1"})
}

func (s *Server) handlePlanningSubmit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, false)
	if !ok {
		return
	}
	v := planningView{
		page:   s.newPage("Financial Planning", "/planning"),
		Name:   p.Get("name"),
		Target: p.Get("target"),
		Years:  p.Get("years"),
	}

	g, err := readGoal(p)
	var monthly decimal.Decimal
	if err == nil {
		monthly, err = finance.MonthlySavingsGoal(g.Target, g.Years)
	}
	if err != nil {
		s.logCommandError(r, "Goal calculation failed", err, log.OpCalculate)
		v.Error = userMessage(err)
		s.render(w, r, statusFor(err), "planning.html", v)
		return
	}

	v.Result = &planningResult{Name: g.Name, Monthly: monthly, Months: g.Years * 12}
	s.render(w, r, http.StatusOK, "planning.html", v)
}

func (s *Server) handleSIPPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "sip.html", sipView{page: s.newPage("SIP Calculator", "/sip"), Years: "1"})
}

func (s *Server) handleSIPSubmit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, false)
	if !ok {
		return
	}
	v := sipView{
		page:    s.newPage("SIP Calculator", "/sip"),
		Monthly: p.Get("monthly"),
		Rate:    p.Get("rate"),
		Years:   p.Get("years"),
	}

	plan, err := readSIP(p)
	v.Ordinary = plan.Timing == finance.Ordinary
	var proj finance.SIPProjection
	if err == nil {
		proj, err = finance.ProjectSIP(plan)
	}
	if err != nil {
		s.logCommandError(r, "SIP calculation failed", err, log.OpCalculate)
		v.Error = userMessage(err)
		s.render(w, r, statusFor(err), "sip.html", v)
		return
	}

	largest := decimal.Max(proj.Invested, proj.Gains)
	v.Result = &sipResult{
		SIPProjection: proj,
		Timing:        plan.Timing.String(),
		InvestedWidth: barWidth(proj.Invested, largest),
		GainsWidth:    barWidth(proj.Gains, largest),
	}
	s.render(w, r, http.StatusOK, "sip.html", v)
}

func (s *Server) handleEMIPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "emi.html", emiView{page: s.newPage("EMI Calculator", "/emi"), Years: "1"})
}

func (s *Server) handleEMISubmit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, false)
	if !ok {
		return
	}
	v := emiView{
		page:   s.newPage("EMI Calculator", "/emi"),
		Amount: p.Get("amount"),
		Rate:   p.Get("rate"),
		Years:  p.Get("years"),
	}

	terms, schedule, err := readLoan(p)
	v.Schedule = schedule
	var sum finance.LoanSummary
	var rows []finance.Installment
	if err == nil {
		sum, err = finance.SummarizeLoan(terms)
	}
	if err == nil && schedule {
		rows, err = finance.Amortize(terms)
	}
	if err != nil {
		s.logCommandError(r, "EMI calculation failed", err, log.OpCalculate)
		v.Error = userMessage(err)
		s.render(w, r, statusFor(err), "emi.html", v)
		return
	}

	v.Result = &emiResult{LoanSummary: sum, Rows: rows}
	s.render(w, r, http.StatusOK, "emi.html", v)
}
