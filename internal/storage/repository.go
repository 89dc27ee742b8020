package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"spese-forecast/internal/core"
	ports "spese-forecast/internal/sheets"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var (
	_ ports.ObservationSource = (*SQLiteRepository)(nil)
	_ ports.ExpenseWriter     = (*SQLiteRepository)(nil)
)

// SQLiteRepository stores raw expenses and serves their monthly totals as
// training observations.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping database: %w", err), db.Close())
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, errors.Join(fmt.Errorf("run migrations: %w", err), db.Close())
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.ExpenseWriter
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, description, amount_cents, primary_category, secondary_category)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Date.Format(dateLayout), e.Description, e.Amount.Cents, e.Primary, e.Secondary)
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read expense id: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.Format(dateLayout),
		"amount_cents", e.Amount.Cents)

	return strconv.FormatInt(id, 10), nil
}

// Observations implements sheets.ObservationSource: one observation per
// month with expenses, sorted by date.
func (r *SQLiteRepository) Observations(ctx context.Context) ([]core.Observation, error) {
	expenses, err := r.queryExpenses(ctx,
		`SELECT date, description, amount_cents, primary_category, secondary_category
		 FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	return core.AggregateMonthly(expenses), nil
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := make([]core.Expense, 0)
	for rows.Next() {
		var (
			date string
			e    core.Expense
		)
		if err := rows.Scan(&date, &e.Description, &e.Amount.Cents, &e.Primary, &e.Secondary); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		e.Date = d
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}
