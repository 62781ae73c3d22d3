package finance

import "github.com/shopspring/decimal"

// LoanTerms describes a fully amortizing loan with monthly instalments.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualInterestPct decimal.Decimal
	TenureYears       int
}

func (t LoanTerms) Validate() error {
	if err := checkAmount("loan amount", t.Principal); err != nil {
		return err
	}
	if err := checkRate("annual interest rate", t.AnnualInterestPct); err != nil {
		return err
	}
	return checkYears("loan tenure", t.TenureYears)
}

func (t LoanTerms) months() int {
	return t.TenureYears * 12
}

// LoanSummary holds the instalment and the totals over the whole tenure.
type LoanSummary struct {
	Months        int
	EMI           decimal.Decimal
	TotalPayment  decimal.Decimal
	TotalInterest decimal.Decimal
}

// Installment is one month of an amortization schedule.
type Installment struct {
	Month     int
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// EMI returns the equated monthly instalment. A zero rate degrades to
// loanAmount / months.
func EMI(loanAmount, annualInterestPct decimal.Decimal, tenureYears int) (decimal.Decimal, error) {
	n := tenureYears * 12
	if n <= 0 {
		return decimal.Zero, ErrDivisionByZero
	}
	months := decimal.NewFromInt(int64(n))
	r := monthlyRate(annualInterestPct)
	if r.IsZero() {
		return div(loanAmount, months), nil
	}
	growth := pow(one.Add(r), n)
	denominator := growth.Sub(one)
	if denominator.IsZero() {
		return div(loanAmount, months), nil
	}
	return div(loanAmount.Mul(r).Mul(growth), denominator), nil
}

func SummarizeLoan(t LoanTerms) (LoanSummary, error) {
	emi, err := EMI(t.Principal, t.AnnualInterestPct, t.TenureYears)
	if err != nil {
		return LoanSummary{}, err
	}
	total := emi.Mul(decimal.NewFromInt(int64(t.months())))
	if err := checkResult("total repayment", total); err != nil {
		return LoanSummary{}, err
	}
	return LoanSummary{
		Months:        t.months(),
		EMI:           emi,
		TotalPayment:  total,
		TotalInterest: total.Sub(t.Principal),
	}, nil
}

// Amortize splits every instalment into interest and principal. The last
// row repays the remaining balance so the schedule closes at exactly zero.
func Amortize(t LoanTerms) ([]Installment, error) {
	emi, err := EMI(t.Principal, t.AnnualInterestPct, t.TenureYears)
	if err != nil {
		return nil, err
	}
	n := t.months()
	r := monthlyRate(t.AnnualInterestPct)
	balance := t.Principal
	rows := make([]Installment, 0, n)
	for m := 1; m <= n; m++ {
		interest := balance.Mul(r).Round(Precision)
		principal := emi.Sub(interest)
		payment := emi
		if m == n {
			principal = balance
			payment = principal.Add(interest)
		}
		balance = balance.Sub(principal)
		rows = append(rows, Installment{
			Month:     m,
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}
	return rows, nil
}
