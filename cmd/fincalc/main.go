package main

import (
	"fmt"
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagPlain    bool
	flagCurrency string
)

var rootCmd = &cobra.Command{
	Use:           "fincalc",
	Short:         "Personal finance calculators",
	Long:          "Budget, savings goal, SIP and EMI calculators with short lessons on personal finance.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "Disable colours and box styling")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", core.DefaultCurrency, "ISO 4217 display currency")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.NewRenderer(rootCmd.ErrOrStderr(), flagPlain).Error(err)
		os.Exit(1)
	}
}

func renderer(cmd *cobra.Command) *cli.Renderer {
	return cli.NewRenderer(cmd.OutOrStdout(), flagPlain)
}

func money(d decimal.Decimal) string {
	return core.FormatMoney(d, flagCurrency)
}

func amountFlag(name, value string) (decimal.Decimal, error) {
	d, err := core.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s must be a non-negative number", name)
	}
	return d, nil
}

func percentFlag(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("--%s must be a non-negative percentage", name)
	}
	return d, nil
}
