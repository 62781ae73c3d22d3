package finance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Timing selects when each monthly instalment is invested.
type Timing int

const (
	// AnnuityDue invests at the start of each month.
	AnnuityDue Timing = iota
	// Ordinary invests at the end of each month.
	Ordinary
)

func (t Timing) String() string {
	if t == Ordinary {
		return "ordinary"
	}
	return "due"
}

func ParseTiming(s string) (Timing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "due", "annuity_due", "start":
		return AnnuityDue, nil
	case "ordinary", "end":
		return Ordinary, nil
	}
	return AnnuityDue, fmt.Errorf("%w: unknown timing %q", ErrInvalidInput, s)
}

// SIPPlan is a systematic investment plan.
type SIPPlan struct {
	Monthly         decimal.Decimal
	AnnualReturnPct decimal.Decimal
	Years           int
	Timing          Timing
}

func (p SIPPlan) Validate() error {
	if err := checkAmount("monthly investment", p.Monthly); err != nil {
		return err
	}
	if err := checkRate("expected annual return", p.AnnualReturnPct); err != nil {
		return err
	}
	return checkYears("investment duration", p.Years)
}

// SIPProjection breaks a projected future value into contributions and gains.
type SIPProjection struct {
	Months      int
	FutureValue decimal.Decimal
	Invested    decimal.Decimal
	Gains       decimal.Decimal
}

// ProjectSIP compounds a monthly investment at the plan's monthly rate.
// A zero rate degrades to the linear sum of contributions. A future value
// above MaxAmount is rejected with ErrInvalidInput.
func ProjectSIP(p SIPPlan) (SIPProjection, error) {
	if p.Years < 0 {
		return SIPProjection{}, invalid("investment duration must not be negative")
	}
	months := p.Years * 12
	invested := p.Monthly.Mul(decimal.NewFromInt(int64(months)))
	r := monthlyRate(p.AnnualReturnPct)

	fv := invested
	if !r.IsZero() {
		growth := pow(one.Add(r), months)
		fv = p.Monthly.Mul(div(growth.Sub(one), r))
		if p.Timing == AnnuityDue {
			fv = fv.Mul(one.Add(r))
		}
		fv = fv.Round(Precision)
	}
	if err := checkResult("projected value", fv); err != nil {
		return SIPProjection{}, err
	}
	if err := checkResult("total invested", invested); err != nil {
		return SIPProjection{}, err
	}
	return SIPProjection{
		Months:      months,
		FutureValue: fv,
		Invested:    invested,
		Gains:       fv.Sub(invested),
	}, nil
}

// SIPFutureValue returns the annuity-due future value of a monthly investment.
func SIPFutureValue(monthly, annualReturnPct decimal.Decimal, years int) (decimal.Decimal, error) {
	p, err := ProjectSIP(SIPPlan{Monthly: monthly, AnnualReturnPct: annualReturnPct, Years: years})
	if err != nil {
		return decimal.Zero, err
	}
	return p.FutureValue, nil
}
