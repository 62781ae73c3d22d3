package main

import (
	"fmt"
	"strconv"

	"fintrack/internal/cli"
	"fintrack/internal/finance"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	budgetIncome, budgetExpenses string

	goalName, goalTarget string
	goalYears            int

	sipMonthly, sipRate string
	sipYears            int
	sipOrdinary         bool

	emiAmount, emiRate string
	emiYears           int
	emiSchedule        bool
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Monthly savings and savings rate",
	RunE:  runBudget,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Monthly saving needed to reach a target",
	RunE:  runGoal,
}

var sipCmd = &cobra.Command{
	Use:   "sip",
	Short: "Future value of a systematic investment plan",
	RunE:  runSIP,
}

var emiCmd = &cobra.Command{
	Use:   "emi",
	Short: "Equated monthly instalment of a loan",
	RunE:  runEMI,
}

func init() {
	budgetCmd.Flags().StringVar(&budgetIncome, "income", "", "Monthly income")
	budgetCmd.Flags().StringVar(&budgetExpenses, "expenses", "", "Monthly expenses")
	_ = budgetCmd.MarkFlagRequired("income")
	_ = budgetCmd.MarkFlagRequired("expenses")

	goalCmd.Flags().StringVar(&goalName, "name", "", "Goal name")
	goalCmd.Flags().StringVar(&goalTarget, "target", "", "Target amount")
	goalCmd.Flags().IntVar(&goalYears, "years", 1, "Timeframe in years")
	_ = goalCmd.MarkFlagRequired("target")

	sipCmd.Flags().StringVar(&sipMonthly, "monthly", "", "Monthly investment")
	sipCmd.Flags().StringVar(&sipRate, "rate", "", "Expected annual return in percent")
	sipCmd.Flags().IntVar(&sipYears, "years", 1, "Investment duration in years")
	sipCmd.Flags().BoolVar(&sipOrdinary, "ordinary", false, "Invest at the end of each month instead of the start")
	_ = sipCmd.MarkFlagRequired("monthly")
	_ = sipCmd.MarkFlagRequired("rate")

	emiCmd.Flags().StringVar(&emiAmount, "amount", "", "Loan amount")
	emiCmd.Flags().StringVar(&emiRate, "rate", "", "Annual interest rate in percent")
	emiCmd.Flags().IntVar(&emiYears, "years", 1, "Loan tenure in years")
	emiCmd.Flags().BoolVar(&emiSchedule, "schedule", false, "Print the amortization schedule")
	_ = emiCmd.MarkFlagRequired("amount")
	_ = emiCmd.MarkFlagRequired("rate")

	rootCmd.AddCommand(budgetCmd, goalCmd, sipCmd, emiCmd)
}

func runBudget(cmd *cobra.Command, _ []string) error {
	income, err := amountFlag("income", budgetIncome)
	if err != nil {
		return err
	}
	expenses, err := amountFlag("expenses", budgetExpenses)
	if err != nil {
		return err
	}
	b := finance.Budget{Income: income, Expenses: expenses}
	if err := b.Validate(); err != nil {
		return err
	}

	savings := finance.Savings(income, expenses)
	rate := finance.SavingsRate(income, expenses)

	r := renderer(cmd)
	r.Title("Budget")
	r.KeyValues([][2]string{
		{"Income", money(income)},
		{"Expenses", money(expenses)},
		{"Savings", r.Amount(money(savings), savings.IsNegative())},
		{"Savings rate", rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"},
	})
	return nil
}

func runGoal(cmd *cobra.Command, _ []string) error {
	target, err := amountFlag("target", goalTarget)
	if err != nil {
		return err
	}
	g := finance.GoalPlan{Name: goalName, Target: target, Years: goalYears}
	if err := g.Validate(); err != nil {
		return err
	}
	monthly, err := finance.MonthlySavingsGoal(target, goalYears)
	if err != nil {
		return err
	}

	title := "Savings goal"
	if goalName != "" {
		title += ": " + goalName
	}
	r := renderer(cmd)
	r.Title(title)
	r.KeyValues([][2]string{
		{"Target", money(target)},
		{"Months", strconv.Itoa(goalYears * 12)},
		{"Save monthly", money(monthly)},
	})
	return nil
}

func runSIP(cmd *cobra.Command, _ []string) error {
	monthly, err := amountFlag("monthly", sipMonthly)
	if err != nil {
		return err
	}
	rate, err := percentFlag("rate", sipRate)
	if err != nil {
		return err
	}
	plan := finance.SIPPlan{Monthly: monthly, AnnualReturnPct: rate, Years: sipYears, Timing: finance.AnnuityDue}
	if sipOrdinary {
		plan.Timing = finance.Ordinary
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	proj, err := finance.ProjectSIP(plan)
	if err != nil {
		return err
	}

	r := renderer(cmd)
	r.Title("SIP projection")
	r.KeyValues([][2]string{
		{"Months", strconv.Itoa(proj.Months)},
		{"Timing", plan.Timing.String()},
		{"Invested", money(proj.Invested)},
		{"Gains", r.Amount(money(proj.Gains), proj.Gains.IsNegative())},
		{"Future value", money(proj.FutureValue)},
	})
	return nil
}

func runEMI(cmd *cobra.Command, _ []string) error {
	amount, err := amountFlag("amount", emiAmount)
	if err != nil {
		return err
	}
	rate, err := percentFlag("rate", emiRate)
	if err != nil {
		return err
	}
	terms := finance.LoanTerms{Principal: amount, AnnualInterestPct: rate, TenureYears: emiYears}
	if err := terms.Validate(); err != nil {
		return err
	}
	sum, err := finance.SummarizeLoan(terms)
	if err != nil {
		return err
	}

	r := renderer(cmd)
	r.Title("Loan EMI")
	r.KeyValues([][2]string{
		{"Monthly EMI", money(sum.EMI)},
		{"Instalments", strconv.Itoa(sum.Months)},
		{"Total payment", money(sum.TotalPayment)},
		{"Total interest", money(sum.TotalInterest)},
	})
	if !emiSchedule {
		return nil
	}

	rows, err := finance.Amortize(terms)
	if err != nil {
		return err
	}
	t := cli.Table{
		Title:   "Amortization schedule",
		Headers: []string{"Month", "Payment", "Interest", "Principal", "Balance"},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			fmt.Sprint(row.Month),
			money(row.Payment),
			money(row.Interest),
			money(row.Principal),
			money(row.Balance),
		})
	}
	r.Table(t)
	return nil
}
