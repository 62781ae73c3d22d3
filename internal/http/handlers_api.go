package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/finance"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
)

// JSON API mirroring the panels. Amounts are rounded to two decimals and
// encoded as strings.

type budgetResponse struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate decimal.Decimal `json:"savings_rate"`
}

type goalResponse struct {
	Name          string          `json:"name,omitempty"`
	Target        decimal.Decimal `json:"target"`
	Years         int             `json:"years"`
	MonthlySaving decimal.Decimal `json:"monthly_saving"`
}

type sipResponse struct {
	Timing      string          `json:"timing"`
	Months      int             `json:"months"`
	FutureValue decimal.Decimal `json:"future_value"`
	Invested    decimal.Decimal `json:"invested"`
	Gains       decimal.Decimal `json:"gains"`
}

type installmentResponse struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

type emiResponse struct {
	Months        int                   `json:"months"`
	EMI           decimal.Decimal       `json:"emi"`
	TotalPayment  decimal.Decimal       `json:"total_payment"`
	TotalInterest decimal.Decimal       `json:"total_interest"`
	Schedule      []installmentResponse `json:"schedule,omitempty"`
}

type recordedResponse struct {
	Ref string `json:"ref"`
}

type investmentResponse struct {
	core.InvestmentEntry
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

type expenseSummaryResponse struct {
	Totals []core.CategoryAmount `json:"totals"`
	Total  decimal.Decimal       `json:"total"`
}

type investmentSummaryResponse struct {
	Assets    []core.AssetProfitLoss `json:"assets"`
	Portfolio core.PortfolioTotals   `json:"portfolio"`
}

func (s *Server) apiFail(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	s.logCommandError(r, msg, err, op)
	JSONError(statusFor(err), userMessage(err)).Write(w)
}

func (s *Server) handleAPIBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, true)
	if !ok {
		return
	}
	b, err := readBudget(p)
	if err != nil {
		s.apiFail(w, r, "Budget calculation failed", err, log.OpCalculate)
		return
	}
	NewResponse().JSON(budgetResponse{
		Income:      round2(b.Income),
		Expenses:    round2(b.Expenses),
		Savings:     round2(finance.Savings(b.Income, b.Expenses)),
		SavingsRate: finance.SavingsRate(b.Income, b.Expenses).Round(4),
	}).Write(w)
}

func (s *Server) handleAPIGoal(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, true)
	if !ok {
		return
	}
	g, err := readGoal(p)
	var monthly decimal.Decimal
	if err == nil {
		monthly, err = finance.MonthlySavingsGoal(g.Target, g.Years)
	}
	if err != nil {
		s.apiFail(w, r, "Goal calculation failed", err, log.OpCalculate)
		return
	}
	NewResponse().JSON(goalResponse{
		Name:          g.Name,
		Target:        round2(g.Target),
		Years:         g.Years,
		MonthlySaving: round2(monthly),
	}).Write(w)
}

func (s *Server) handleAPISIP(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, true)
	if !ok {
		return
	}
	plan, err := readSIP(p)
	var proj finance.SIPProjection
	if err == nil {
		proj, err = finance.ProjectSIP(plan)
	}
	if err != nil {
		s.apiFail(w, r, "SIP calculation failed", err, log.OpCalculate)
		return
	}
	NewResponse().JSON(sipResponse{
		Timing:      plan.Timing.String(),
		Months:      proj.Months,
		FutureValue: round2(proj.FutureValue),
		Invested:    round2(proj.Invested),
		Gains:       round2(proj.Gains),
	}).Write(w)
}

func (s *Server) handleAPIEMI(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r, true)
	if !ok {
		return
	}
	terms, schedule, err := readLoan(p)
	var sum finance.LoanSummary
	var rows []finance.Installment
	if err == nil {
		sum, err = finance.SummarizeLoan(terms)
	}
	if err == nil && schedule {
		rows, err = finance.Amortize(terms)
	}
	if err != nil {
		s.apiFail(w, r, "EMI calculation failed", err, log.OpCalculate)
		return
	}

	resp := emiResponse{
		Months:        sum.Months,
		EMI:           round2(sum.EMI),
		TotalPayment:  round2(sum.TotalPayment),
		TotalInterest: round2(sum.TotalInterest),
	}
	for _, row := range rows {
		resp.Schedule = append(resp.Schedule, installmentResponse{
			Month:     row.Month,
			Payment:   round2(row.Payment),
			Interest:  round2(row.Interest),
			Principal: round2(row.Principal),
			Balance:   round2(row.Balance),
		})
	}
	NewResponse().JSON(resp).Write(w)
}

func (s *Server) handleAPIListExpenses(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}
	entries, err := store.Expenses(r.Context())
	if err != nil {
		s.apiFail(w, r, "Failed to list expenses", err, log.OpList)
		return
	}
	if entries == nil {
		entries = []core.ExpenseEntry{}
	}
	NewResponse().JSON(entries).Write(w)
}

func (s *Server) handleAPIAddExpense(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}
	p, ok := s.parseBody(w, r, true)
	if !ok {
		return
	}
	entry, err := readExpense(p)
	var ref string
	if err == nil {
		ref, err = s.records.RecordExpense(r.Context(), store, entry)
	}
	if err != nil {
		s.apiFail(w, r, "Failed to record expense", err, log.OpAppend)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(recordedResponse{Ref: ref}).Write(w)
}

func (s *Server) handleAPIExpenseSummary(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}
	sum, err := s.records.ExpenseSummary(r.Context(), store)
	if err != nil {
		s.apiFail(w, r, "Failed to summarize expenses", err, log.OpList)
		return
	}
	totals := sum.Totals
	if totals == nil {
		totals = []core.CategoryAmount{}
	}
	NewResponse().JSON(expenseSummaryResponse{Totals: totals, Total: sum.Total}).Write(w)
}

func (s *Server) handleAPIListInvestments(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}
	entries, err := store.Investments(r.Context())
	if err != nil {
		s.apiFail(w, r, "Failed to list investments", err, log.OpList)
		return
	}
	out := make([]investmentResponse, len(entries))
	for i, e := range entries {
		out[i] = investmentResponse{InvestmentEntry: e, ProfitLoss: e.ProfitLoss()}
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleAPIAddInvestment(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}
	p, ok := s.parseBody(w, r, true)
	if !ok {
		return
	}
	entry, err := readInvestment(p)
	var ref string
	if err == nil {
		ref, err = s.records.RecordInvestment(r.Context(), store, entry)
	}
	if err != nil {
		s.apiFail(w, r, "Failed to record investment", err, log.OpAppend)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(recordedResponse{Ref: ref}).Write(w)
}

func (s *Server) handleAPIInvestmentSummary(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(r)
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}
	sum, err := s.records.InvestmentSummary(r.Context(), store)
	if err != nil {
		s.apiFail(w, r, "Failed to summarize investments", err, log.OpList)
		return
	}
	assets := sum.Rows
	if assets == nil {
		assets = []core.AssetProfitLoss{}
	}
	NewResponse().JSON(investmentSummaryResponse{Assets: assets, Portfolio: sum.Portfolio}).Write(w)
}
