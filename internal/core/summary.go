package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by expense category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// AssetProfitLoss is one row of the investment profit/loss report.
type AssetProfitLoss struct {
	Asset      string          `json:"asset"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

// PortfolioTotals sums an investment list.
type PortfolioTotals struct {
	Invested   decimal.Decimal `json:"invested"`
	Current    decimal.Decimal `json:"current"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

// SumByCategory groups expense amounts by category. Categories without
// expenses are absent from the result.
func SumByCategory(expenses []ExpenseEntry) map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal)
	for _, e := range expenses {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// CategoryTotals is SumByCategory ordered by Categories.
func CategoryTotals(expenses []ExpenseEntry) []CategoryAmount {
	sums := SumByCategory(expenses)
	out := make([]CategoryAmount, 0, len(sums))
	for _, c := range Categories {
		if amount, ok := sums[c]; ok {
			out = append(out, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return out
}

func TotalExpenses(expenses []ExpenseEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ProfitLossByAsset keeps input order; a repeated asset label yields one row
// per occurrence.
func ProfitLossByAsset(investments []InvestmentEntry) []AssetProfitLoss {
	out := make([]AssetProfitLoss, len(investments))
	for i, inv := range investments {
		out[i] = AssetProfitLoss{Asset: inv.Asset, ProfitLoss: inv.ProfitLoss()}
	}
	return out
}

func Portfolio(investments []InvestmentEntry) PortfolioTotals {
	t := PortfolioTotals{Invested: decimal.Zero, Current: decimal.Zero}
	for _, inv := range investments {
		t.Invested = t.Invested.Add(inv.Invested)
		t.Current = t.Current.Add(inv.Current)
	}
	t.ProfitLoss = t.Current.Sub(t.Invested)
	return t
}
