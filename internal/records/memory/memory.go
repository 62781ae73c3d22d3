package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/records"
)

type Store struct {
	mu          sync.Mutex
	expenses    []core.ExpenseEntry
	investments []core.InvestmentEntry
}

func New() *Store {
	return &Store{}
}

// AppendExpense stores the entry and returns a synthetic reference.
func (s *Store) AppendExpense(_ context.Context, e core.ExpenseEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return fmt.Sprintf("mem:%d", len(s.expenses)), nil
}

func (s *Store) Expenses(_ context.Context) ([]core.ExpenseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseEntry(nil), s.expenses...), nil
}

// AppendInvestment stores the entry and returns a synthetic reference.
func (s *Store) AppendInvestment(_ context.Context, i core.InvestmentEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investments = append(s.investments, i)
	return fmt.Sprintf("mem:%d", len(s.investments)), nil
}

func (s *Store) Investments(_ context.Context) ([]core.InvestmentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.InvestmentEntry(nil), s.investments...), nil
}

// Backend gives every session its own Store. Releasing a session drops the
// reference so the garbage collector reclaims it.
type Backend struct{}

func NewBackend() *Backend {
	return &Backend{}
}

func (*Backend) ForSession(string) records.Store {
	return New()
}

func (*Backend) Release(context.Context, string) error { return nil }

func (*Backend) Ping(context.Context) error { return nil }

func (*Backend) Close() error { return nil }

var _ records.Backend = (*Backend)(nil)
