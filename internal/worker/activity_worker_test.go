package worker

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker() (*ActivityWorker, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &buf
	return NewActivityWorker(log.New(cfg)), &buf
}

func TestHandleEntryRecorded_Counts(t *testing.T) {
	w, _ := newTestWorker()
	ctx := context.Background()

	for _, e := range []core.ExpenseEntry{
		{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: decimal.NewFromInt(10)},
		{Date: core.NewDate(2024, 1, 2), Category: core.Food, Amount: decimal.NewFromInt(20)},
		{Date: core.NewDate(2024, 1, 3), Category: core.Rent, Amount: decimal.NewFromInt(5)},
	} {
		require.NoError(t, w.HandleEntryRecorded(ctx, amqp.NewExpenseRecorded(e)))
	}
	require.NoError(t, w.HandleEntryRecorded(ctx, amqp.NewInvestmentRecorded(core.InvestmentEntry{
		Asset: "A", Invested: decimal.NewFromInt(100), Current: decimal.NewFromInt(150),
	})))

	s := w.Snapshot()
	assert.EqualValues(t, 3, s.ByKind[amqp.KindExpense])
	assert.EqualValues(t, 1, s.ByKind[amqp.KindInvestment])
	assert.EqualValues(t, 2, s.ByCategory["Food"])
	assert.EqualValues(t, 1, s.ByCategory["Rent"])
	assert.True(t, s.ExpenseTotal.Equal(decimal.NewFromInt(35)))
	assert.False(t, s.LastEvent.IsZero())
}

func TestHandleEntryRecorded_Nil(t *testing.T) {
	w, _ := newTestWorker()
	err := w.HandleEntryRecorded(context.Background(), nil)
	assert.ErrorIs(t, err, amqp.ErrInvalidMessage)
}

func TestSnapshotIsCopy(t *testing.T) {
	w, _ := newTestWorker()
	s := w.Snapshot()
	s.ByKind[amqp.KindExpense] = 99
	assert.Zero(t, w.Snapshot().ByKind[amqp.KindExpense])
}

func TestReport_LogsSummary(t *testing.T) {
	w, buf := newTestWorker()
	ctx := context.Background()
	require.NoError(t, w.HandleEntryRecorded(ctx, amqp.NewExpenseRecorded(core.ExpenseEntry{
		Date: core.NewDate(2024, 1, 1), Category: core.Transport, Amount: decimal.RequireFromString("12.50"),
	})))

	w.Report(ctx)

	out := buf.String()
	assert.Contains(t, out, "Activity summary")
	assert.Contains(t, out, "expenses=1")
	assert.Contains(t, out, "category_Transport=1")
	assert.Contains(t, out, "expense_total=12.50")
	assert.Contains(t, out, "component=worker")
}

func TestRunReporter_StopsOnCancel(t *testing.T) {
	w, buf := newTestWorker()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.RunReporter(ctx, 10*time.Millisecond) }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "Activity summary"), 2)
}
