// Package worker consumes entry recorded events and keeps an anonymous
// activity tally.
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time copy of the tally.
type Snapshot struct {
	ByKind     map[string]int64
	ByCategory map[string]int64
	// ExpenseTotal sums the amounts of every expense event seen.
	ExpenseTotal decimal.Decimal
	LastEvent    time.Time
}

// ActivityWorker counts events per kind and per expense category.
type ActivityWorker struct {
	logger *log.Logger

	mu           sync.Mutex
	byKind       map[string]int64
	byCategory   map[string]int64
	expenseTotal decimal.Decimal
	lastEvent    time.Time
}

func NewActivityWorker(logger *log.Logger) *ActivityWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ActivityWorker{
		logger:       logger.WithComponent(log.ComponentWorker),
		byKind:       make(map[string]int64),
		byCategory:   make(map[string]int64),
		expenseTotal: decimal.Zero,
	}
}

// HandleEntryRecorded is an amqp.Handler. Invalid messages never reach it:
// the client rejects them before dispatch.
func (w *ActivityWorker) HandleEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error {
	if msg == nil {
		return fmt.Errorf("nil message: %w", amqp.ErrInvalidMessage)
	}

	w.mu.Lock()
	w.byKind[msg.Kind]++
	if msg.Kind == amqp.KindExpense {
		w.byCategory[msg.Category]++
		if msg.Amount != nil {
			w.expenseTotal = w.expenseTotal.Add(*msg.Amount)
		}
	}
	if msg.Timestamp.After(w.lastEvent) {
		w.lastEvent = msg.Timestamp
	}
	w.mu.Unlock()

	w.logger.DebugContext(ctx, "Processed entry recorded event",
		"id", msg.ID,
		log.FieldEntryKind, msg.Kind,
		log.FieldCategory, msg.Category,
		log.FieldOperation, log.OpConsume)
	return nil
}

func (w *ActivityWorker) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		ByKind:       make(map[string]int64, len(w.byKind)),
		ByCategory:   make(map[string]int64, len(w.byCategory)),
		ExpenseTotal: w.expenseTotal,
		LastEvent:    w.lastEvent,
	}
	for k, v := range w.byKind {
		s.ByKind[k] = v
	}
	for k, v := range w.byCategory {
		s.ByCategory[k] = v
	}
	return s
}

// Report logs the current tally.
func (w *ActivityWorker) Report(ctx context.Context) {
	s := w.Snapshot()

	args := []any{
		"expenses", s.ByKind[amqp.KindExpense],
		"investments", s.ByKind[amqp.KindInvestment],
		"expense_total", s.ExpenseTotal.StringFixed(2),
	}
	categories := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		args = append(args, "category_"+c, s.ByCategory[c])
	}
	if !s.LastEvent.IsZero() {
		args = append(args, "last_event", s.LastEvent.Format(time.RFC3339))
	}

	w.logger.InfoContext(ctx, "Activity summary", args...)
}

// RunReporter calls Report every interval until ctx is done, then reports
// once more.
func (w *ActivityWorker) RunReporter(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Report(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			w.Report(ctx)
		}
	}
}
