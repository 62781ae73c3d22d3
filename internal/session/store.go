package session

import (
	"context"
	"errors"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/records"
)

// ErrSessionClosed is returned by appends made after the session ended.
var ErrSessionClosed = errors.New("session closed")

// closableStore rejects appends once closed. close waits for in-flight
// appends, so nothing is written after the backend purges the session.
type closableStore struct {
	inner records.Store

	mu     sync.RWMutex
	closed bool
}

func newClosableStore(inner records.Store) *closableStore {
	return &closableStore{inner: inner}
}

func (s *closableStore) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *closableStore) AppendExpense(ctx context.Context, e core.ExpenseEntry) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.inner.AppendExpense(ctx, e)
}

func (s *closableStore) AppendInvestment(ctx context.Context, i core.InvestmentEntry) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.inner.AppendInvestment(ctx, i)
}

func (s *closableStore) Expenses(ctx context.Context) ([]core.ExpenseEntry, error) {
	return s.inner.Expenses(ctx)
}

func (s *closableStore) Investments(ctx context.Context) ([]core.InvestmentEntry, error) {
	return s.inner.Investments(ctx)
}

var _ records.Store = (*closableStore)(nil)
