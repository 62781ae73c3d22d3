package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/records/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*amqp.EntryRecordedMessage
	err  error
}

func (f *fakePublisher) PublishEntryRecorded(_ context.Context, msg *amqp.EntryRecordedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

type failingStore struct{ *memory.Store }

func (failingStore) AppendExpense(context.Context, core.ExpenseEntry) (string, error) {
	return "", errors.New("disk full")
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecordExpense_AppendsAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(pub, nil)
	store := memory.New()
	ctx := context.Background()

	ref, err := svc.RecordExpense(ctx, store, core.ExpenseEntry{Date: core.NewDate(2024, 5, 1), Category: core.Food, Amount: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, amqp.KindExpense, pub.msgs[0].Kind)
	assert.Equal(t, "Food", pub.msgs[0].Category)
	assert.EqualValues(t, 1, svc.Stats().Recorded)
}

func TestRecordExpense_ValidationLeavesStoreUntouched(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(pub, nil)
	store := memory.New()
	ctx := context.Background()

	_, err := svc.RecordExpense(ctx, store, core.ExpenseEntry{Date: core.NewDate(2024, 5, 1), Category: "Fun", Amount: dec("10")})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	_, err = svc.RecordExpense(ctx, store, core.ExpenseEntry{Date: core.NewDate(2024, 5, 1), Category: core.Rent, Amount: dec("-1")})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	got, _ := store.Expenses(ctx)
	assert.Empty(t, got)
	assert.Empty(t, pub.msgs)
}

func TestRecordExpense_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: amqp.ErrCircuitOpen}
	svc := NewRecordService(pub, nil)
	store := memory.New()
	ctx := context.Background()

	_, err := svc.RecordExpense(ctx, store, core.ExpenseEntry{Date: core.NewDate(2024, 5, 1), Category: core.Other, Amount: dec("3")})
	require.NoError(t, err)

	got, _ := store.Expenses(ctx)
	assert.Len(t, got, 1)
	assert.EqualValues(t, 1, svc.Stats().PublishFailures)
}

func TestRecordExpense_StoreError(t *testing.T) {
	svc := NewRecordService(nil, nil)
	_, err := svc.RecordExpense(context.Background(), failingStore{memory.New()}, core.ExpenseEntry{Date: core.NewDate(2024, 5, 1), Category: core.Food, Amount: dec("1")})
	require.Error(t, err)
	assert.False(t, core.IsValidationError(err))
	assert.Contains(t, err.Error(), "append expense")
}

func TestRecordInvestment_NormalizesAsset(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(pub, nil)
	store := memory.New()
	ctx := context.Background()

	_, err := svc.RecordInvestment(ctx, store, core.InvestmentEntry{Asset: "  Gold\t", Invested: dec("100"), Current: dec("150")})
	require.NoError(t, err)

	got, _ := store.Investments(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "Gold", got[0].Asset)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, amqp.KindInvestment, pub.msgs[0].Kind)

	_, err = svc.RecordInvestment(ctx, store, core.InvestmentEntry{Asset: " \n ", Invested: dec("1"), Current: dec("1")})
	assert.ErrorIs(t, err, core.ErrEmptyAsset)
}

func TestExpenseSummary(t *testing.T) {
	svc := NewRecordService(nil, nil)
	store := memory.New()
	ctx := context.Background()
	for _, e := range []core.ExpenseEntry{
		{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: dec("10")},
		{Date: core.NewDate(2024, 1, 2), Category: core.Food, Amount: dec("20")},
		{Date: core.NewDate(2024, 1, 3), Category: core.Rent, Amount: dec("5")},
	} {
		_, err := svc.RecordExpense(ctx, store, e)
		require.NoError(t, err)
	}

	sum, err := svc.ExpenseSummary(ctx, store)
	require.NoError(t, err)
	assert.Len(t, sum.Entries, 3)
	require.Len(t, sum.Totals, 2)
	assert.Equal(t, core.Food, sum.Totals[0].Category)
	assert.True(t, sum.Totals[0].Amount.Equal(dec("30")))
	assert.True(t, sum.Total.Equal(dec("35")))
	assert.True(t, sum.Largest.Equal(dec("30")))
}

func TestInvestmentSummary(t *testing.T) {
	svc := NewRecordService(nil, nil)
	store := memory.New()
	ctx := context.Background()
	_, _ = svc.RecordInvestment(ctx, store, core.InvestmentEntry{Asset: "A", Invested: dec("100"), Current: dec("150")})
	_, _ = svc.RecordInvestment(ctx, store, core.InvestmentEntry{Asset: "B", Invested: dec("200"), Current: dec("120")})

	sum, err := svc.InvestmentSummary(ctx, store)
	require.NoError(t, err)
	require.Len(t, sum.Rows, 2)
	assert.True(t, sum.Rows[0].ProfitLoss.Equal(dec("50")))
	assert.True(t, sum.Rows[1].ProfitLoss.Equal(dec("-80")))
	assert.True(t, sum.Portfolio.ProfitLoss.Equal(dec("-30")))
	assert.True(t, sum.Largest.Equal(dec("80")))
}

func TestSummaries_Empty(t *testing.T) {
	svc := NewRecordService(nil, nil)
	store := memory.New()
	ctx := context.Background()

	es, err := svc.ExpenseSummary(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, es.Totals)
	assert.True(t, es.Total.IsZero())

	is, err := svc.InvestmentSummary(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, is.Rows)
	assert.True(t, is.Portfolio.ProfitLoss.IsZero())
}
