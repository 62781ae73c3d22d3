package http

import (
	"net/http"

	"fintrack/internal/log"
)

// Record panels follow post/redirect/get: a successful append redirects
// back to the panel, a rejected one re-renders it with the error.

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	s.renderExpenses(w, r, http.StatusOK, nil)
}

func (s *Server) handleExpenseSubmit(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		InternalServerError("session unavailable").Write(w)
		return
	}
	p, ok := s.parseBody(w, r, false)
	if !ok {
		return
	}

	entry, err := readExpense(p)
	if err == nil {
		_, err = s.records.RecordExpense(r.Context(), store, entry)
	}
	if err != nil {
		s.logCommandError(r, "Failed to record expense", err, log.OpAppend)
		s.renderExpenses(w, r, statusFor(err), func(v *expensesView) {
			v.Error = userMessage(err)
			v.Date = p.Get("date")
			v.Category = p.Get("category")
			v.Amount = p.Get("amount")
		})
		return
	}

	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) renderExpenses(w http.ResponseWriter, r *http.Request, status int, edit func(*expensesView)) {
	store, ok := s.store(r)
	if !ok {
		InternalServerError("session unavailable").Write(w)
		return
	}
	sum, err := s.records.ExpenseSummary(r.Context(), store)
	if err != nil {
		s.logCommandError(r, "Failed to list expenses", err, log.OpList)
		InternalServerError("failed to load expenses").Write(w)
		return
	}
	v := newExpensesView(s.newPage("Expense Tracker", "/expenses"), sum)
	if edit != nil {
		edit(&v)
	}
	s.render(w, r, status, "expenses.html", v)
}

func (s *Server) handleInvestmentsPage(w http.ResponseWriter, r *http.Request) {
	s.renderInvestments(w, r, http.StatusOK, nil)
}

func (s *Server) handleInvestmentSubmit(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		InternalServerError("session unavailable").Write(w)
		return
	}
	p, ok := s.parseBody(w, r, false)
	if !ok {
		return
	}

	entry, err := readInvestment(p)
	if err == nil {
		_, err = s.records.RecordInvestment(r.Context(), store, entry)
	}
	if err != nil {
		s.logCommandError(r, "Failed to record investment", err, log.OpAppend)
		s.renderInvestments(w, r, statusFor(err), func(v *investmentsView) {
			v.Error = userMessage(err)
			v.Asset = p.Get("asset")
			v.Invested = p.Get("invested")
			v.Current = p.Get("current")
		})
		return
	}

	http.Redirect(w, r, "/investments", http.StatusSeeOther)
}

func (s *Server) renderInvestments(w http.ResponseWriter, r *http.Request, status int, edit func(*investmentsView)) {
	store, ok := s.store(r)
	if !ok {
		InternalServerError("session unavailable").Write(w)
		return
	}
	sum, err := s.records.InvestmentSummary(r.Context(), store)
	if err != nil {
		s.logCommandError(r, "Failed to list investments", err, log.OpList)
		InternalServerError("failed to load investments").Write(w)
		return
	}
	v := newInvestmentsView(s.newPage("Investment Portfolio", "/investments"), sum)
	if edit != nil {
		edit(&v)
	}
	s.render(w, r, status, "investments.html", v)
}
