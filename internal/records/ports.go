package records

import (
	"context"

	"fintrack/internal/core"
)

// Ports for session-scoped record storage.
type (
	ExpenseStore interface {
		// AppendExpense adds e to the end of the expense sequence.
		AppendExpense(ctx context.Context, e core.ExpenseEntry) (ref string, err error)
		// Expenses returns a snapshot in insertion order.
		Expenses(ctx context.Context) ([]core.ExpenseEntry, error)
	}

	InvestmentStore interface {
		AppendInvestment(ctx context.Context, i core.InvestmentEntry) (ref string, err error)
		Investments(ctx context.Context) ([]core.InvestmentEntry, error)
	}

	// Store is the record store owned by one session.
	Store interface {
		ExpenseStore
		InvestmentStore
	}

	// Backend hands out one Store per session and releases it when the
	// session ends.
	Backend interface {
		ForSession(sessionID string) Store
		Release(ctx context.Context, sessionID string) error
		Ping(ctx context.Context) error
		Close() error
	}
)
