package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(c Category, amount int64) ExpenseEntry {
	return ExpenseEntry{Date: NewDate(2025, 1, 1), Category: c, Amount: decimal.NewFromInt(amount)}
}

func TestSumByCategory(t *testing.T) {
	got := SumByCategory([]ExpenseEntry{
		expense(Food, 10),
		expense(Food, 20),
		expense(Rent, 5),
	})

	require.Len(t, got, 2)
	assert.True(t, got[Food].Equal(decimal.NewFromInt(30)))
	assert.True(t, got[Rent].Equal(decimal.NewFromInt(5)))
	_, hasTransport := got[Transport]
	assert.False(t, hasTransport, "absent categories must not be zero-filled")
}

func TestSumByCategory_Empty(t *testing.T) {
	assert.Empty(t, SumByCategory(nil))
	assert.Empty(t, CategoryTotals(nil))
	assert.True(t, TotalExpenses(nil).IsZero())
}

func TestCategoryTotals_FixedOrder(t *testing.T) {
	got := CategoryTotals([]ExpenseEntry{
		expense(Other, 1),
		expense(Food, 2),
		expense(Rent, 3),
		expense(Food, 4),
	})

	require.Len(t, got, 3)
	assert.Equal(t, Food, got[0].Category)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, Rent, got[1].Category)
	assert.Equal(t, Other, got[2].Category)
}

func TestProfitLossByAsset(t *testing.T) {
	got := ProfitLossByAsset([]InvestmentEntry{
		{Asset: "A", Invested: decimal.NewFromInt(100), Current: decimal.NewFromInt(150)},
		{Asset: "B", Invested: decimal.NewFromInt(200), Current: decimal.NewFromInt(180)},
		{Asset: "A", Invested: decimal.NewFromInt(10), Current: decimal.NewFromInt(10)},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Asset)
	assert.True(t, got[0].ProfitLoss.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "B", got[1].Asset)
	assert.True(t, got[1].ProfitLoss.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, "A", got[2].Asset, "repeated labels stay separate rows")
	assert.True(t, got[2].ProfitLoss.IsZero())
}

func TestPortfolio(t *testing.T) {
	totals := Portfolio([]InvestmentEntry{
		{Asset: "A", Invested: decimal.NewFromInt(100), Current: decimal.NewFromInt(150)},
		{Asset: "B", Invested: decimal.NewFromInt(200), Current: decimal.NewFromInt(180)},
	})

	assert.True(t, totals.Invested.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.Current.Equal(decimal.NewFromInt(330)))
	assert.True(t, totals.ProfitLoss.Equal(decimal.NewFromInt(30)))
}
