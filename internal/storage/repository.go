// Package storage implements the session-scoped record store on SQLite.
//
// All sessions share one database. Rows are keyed by session id and kept in
// insertion order by an autoincrement sequence; Release deletes a session's
// rows when the session ends. The default DSN is a shared-cache in-memory
// database, so nothing outlives the process.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/records"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// DefaultDSN keeps the database in memory for the lifetime of the process.
const DefaultDSN = "file:fintrack?mode=memory&cache=shared"

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dsn string, logger *log.Logger) (*SQLiteRepository, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if isFilePath(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serialises writers and keeps a shared in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func isFilePath(dsn string) bool {
	return !strings.HasPrefix(dsn, "file:") && !strings.HasPrefix(dsn, ":memory:")
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ForSession returns a Store whose reads and writes are confined to sessionID.
func (r *SQLiteRepository) ForSession(sessionID string) records.Store {
	return &sessionStore{repo: r, sessionID: sessionID}
}

// Release removes every row owned by sessionID.
func (r *SQLiteRepository) Release(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	var purged int64
	for _, table := range []string{"expenses", "investments"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", sessionID)
		if err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		purged += n
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purge: %w", err)
	}

	r.logger.DebugContext(ctx, "Session rows purged",
		log.FieldSessionID, sessionID,
		log.FieldOperation, log.OpPurge,
		"rows", purged)
	return nil
}

// CountRows reports the number of rows held for sessionID in both tables.
func (r *SQLiteRepository) CountRows(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM expenses WHERE session_id = ?) +
		        (SELECT COUNT(*) FROM investments WHERE session_id = ?)`,
		sessionID, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

type sessionStore struct {
	repo      *SQLiteRepository
	sessionID string
}

func (s *sessionStore) AppendExpense(ctx context.Context, e core.ExpenseEntry) (string, error) {
	res, err := s.repo.db.ExecContext(ctx,
		`INSERT INTO expenses (session_id, date, category, amount) VALUES (?, ?, ?, ?)`,
		s.sessionID, e.Date.String(), string(e.Category), e.Amount.String())
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("expense id: %w", err)
	}
	return fmt.Sprintf("sqlite:%d", id), nil
}

func (s *sessionStore) Expenses(ctx context.Context) ([]core.ExpenseEntry, error) {
	rows, err := s.repo.db.QueryContext(ctx,
		`SELECT date, category, amount FROM expenses WHERE session_id = ? ORDER BY seq`,
		s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseEntry
	for rows.Next() {
		var date, category, amount string
		if err := rows.Scan(&date, &category, &amount); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("decode expense date: %w", err)
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decode expense amount: %w", err)
		}
		out = append(out, core.ExpenseEntry{Date: d, Category: core.Category(category), Amount: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (s *sessionStore) AppendInvestment(ctx context.Context, i core.InvestmentEntry) (string, error) {
	res, err := s.repo.db.ExecContext(ctx,
		`INSERT INTO investments (session_id, asset, invested_amount, current_value) VALUES (?, ?, ?, ?)`,
		s.sessionID, i.Asset, i.Invested.String(), i.Current.String())
	if err != nil {
		return "", fmt.Errorf("insert investment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("investment id: %w", err)
	}
	return fmt.Sprintf("sqlite:%d", id), nil
}

func (s *sessionStore) Investments(ctx context.Context) ([]core.InvestmentEntry, error) {
	rows, err := s.repo.db.QueryContext(ctx,
		`SELECT asset, invested_amount, current_value FROM investments WHERE session_id = ? ORDER BY seq`,
		s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("query investments: %w", err)
	}
	defer rows.Close()

	var out []core.InvestmentEntry
	for rows.Next() {
		var asset, invested, current string
		if err := rows.Scan(&asset, &invested, &current); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		inv, err := decimal.NewFromString(invested)
		if err != nil {
			return nil, fmt.Errorf("decode invested amount: %w", err)
		}
		cur, err := decimal.NewFromString(current)
		if err != nil {
			return nil, fmt.Errorf("decode current value: %w", err)
		}
		out = append(out, core.InvestmentEntry{Asset: asset, Invested: inv, Current: cur})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investments: %w", err)
	}
	return out, nil
}

var _ records.Backend = (*SQLiteRepository)(nil)
