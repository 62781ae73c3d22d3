package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/records"

	"github.com/shopspring/decimal"
)

// EventPublisher announces appended records. *amqp.Client implements it.
type EventPublisher interface {
	PublishEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error
}

// RecordService validates entries, appends them to a session store and
// publishes an activity event. Publishing never fails the append.
type RecordService struct {
	publisher EventPublisher
	logger    *log.Logger
	events    *log.StructuredLogger

	recorded        atomic.Int64
	publishFailures atomic.Int64
}

type Stats struct {
	Recorded        int64
	PublishFailures int64
}

// ExpenseSummary is the read model of the expense panel.
type ExpenseSummary struct {
	Entries []core.ExpenseEntry
	Totals  []core.CategoryAmount
	Total   decimal.Decimal
	// Largest is the largest category total, used to scale bars.
	Largest decimal.Decimal
}

// InvestmentSummary is the read model of the investment panel.
type InvestmentSummary struct {
	Entries   []core.InvestmentEntry
	Rows      []core.AssetProfitLoss
	Portfolio core.PortfolioTotals
	// Largest is the largest absolute profit or loss, used to scale bars.
	Largest decimal.Decimal
}

func NewRecordService(publisher EventPublisher, logger *log.Logger) *RecordService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &RecordService{
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentRecords),
		events:    log.NewStructuredLogger(logger),
	}
}

// RecordExpense validates e and appends it to store.
func (s *RecordService) RecordExpense(ctx context.Context, store records.ExpenseStore, e core.ExpenseEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	ref, err := store.AppendExpense(ctx, e)
	if err != nil {
		return "", fmt.Errorf("append expense: %w", err)
	}
	s.recorded.Add(1)
	s.events.LogEntryRecorded(ctx, amqp.KindExpense, string(e.Category), e.Amount.StringFixed(2), ref)

	s.publish(ctx, amqp.NewExpenseRecorded(e))
	return ref, nil
}

// RecordInvestment normalizes the asset label, validates i and appends it
// to store.
func (s *RecordService) RecordInvestment(ctx context.Context, store records.InvestmentStore, i core.InvestmentEntry) (string, error) {
	i.Asset = core.NormalizeAsset(i.Asset)
	if err := i.Validate(); err != nil {
		return "", err
	}

	ref, err := store.AppendInvestment(ctx, i)
	if err != nil {
		return "", fmt.Errorf("append investment: %w", err)
	}
	s.recorded.Add(1)
	s.events.LogEntryRecorded(ctx, amqp.KindInvestment, "", i.Invested.StringFixed(2), ref)

	s.publish(ctx, amqp.NewInvestmentRecorded(i))
	return ref, nil
}

func (s *RecordService) publish(ctx context.Context, msg *amqp.EntryRecordedMessage) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping event", log.FieldEntryKind, msg.Kind)
		return
	}
	if err := s.publisher.PublishEntryRecorded(ctx, msg); err != nil {
		s.publishFailures.Add(1)
		s.logger.WarnContext(ctx, "Failed to publish entry recorded event",
			log.FieldError, err,
			log.FieldEntryKind, msg.Kind,
			log.FieldOperation, log.OpPublish)
	}
}

func (s *RecordService) ExpenseSummary(ctx context.Context, store records.ExpenseStore) (ExpenseSummary, error) {
	entries, err := store.Expenses(ctx)
	if err != nil {
		return ExpenseSummary{}, fmt.Errorf("list expenses: %w", err)
	}
	sum := ExpenseSummary{
		Entries: entries,
		Totals:  core.CategoryTotals(entries),
		Total:   core.TotalExpenses(entries),
		Largest: decimal.Zero,
	}
	for _, t := range sum.Totals {
		if t.Amount.GreaterThan(sum.Largest) {
			sum.Largest = t.Amount
		}
	}
	return sum, nil
}

func (s *RecordService) InvestmentSummary(ctx context.Context, store records.InvestmentStore) (InvestmentSummary, error) {
	entries, err := store.Investments(ctx)
	if err != nil {
		return InvestmentSummary{}, fmt.Errorf("list investments: %w", err)
	}
	sum := InvestmentSummary{
		Entries:   entries,
		Rows:      core.ProfitLossByAsset(entries),
		Portfolio: core.Portfolio(entries),
		Largest:   decimal.Zero,
	}
	for _, r := range sum.Rows {
		if abs := r.ProfitLoss.Abs(); abs.GreaterThan(sum.Largest) {
			sum.Largest = abs
		}
	}
	return sum, nil
}

func (s *RecordService) Stats() Stats {
	return Stats{
		Recorded:        s.recorded.Load(),
		PublishFailures: s.publishFailures.Load(),
	}
}
