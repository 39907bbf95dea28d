// Package repository defines the storage contract implemented by the local
// embedded backend and the remote SQL backend.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

// ExpenseRepository stores expense templates and answers month projections.
type ExpenseRepository interface {
	// Create persists the expense and fills in its assigned ID.
	Create(ctx context.Context, e *models.Expense) error
	Update(ctx context.Context, e *models.Expense) error
	// Delete reports success via its return value and never fails on a
	// missing id.
	Delete(ctx context.Context, id int64) bool
	// FindByID returns (nil, nil) when no expense has the given id.
	FindByID(ctx context.Context, id int64) (*models.Expense, error)
	FindAll(ctx context.Context) ([]models.Expense, error)
	// FindByMonth returns the projected view of expenses for the month
	// containing the given date.
	FindByMonth(ctx context.Context, month time.Time) ([]models.Expense, error)
	FindByCategory(ctx context.Context, category string) ([]models.Expense, error)
	FindByFrequency(ctx context.Context, f models.Frequency) ([]models.Expense, error)
	FindByPaidStatus(ctx context.Context, isPaid bool) ([]models.Expense, error)
	// Upcoming lists recurring expenses whose next payment falls within the
	// given number of months from now.
	Upcoming(ctx context.Context, months int) ([]models.Expense, error)
}

// BalanceRepository stores the single current balance record.
type BalanceRepository interface {
	// Upsert writes into the first existing record, or creates one. There is
	// never more than one meaningful balance record.
	Upsert(ctx context.Context, b *models.Balance) error
	Delete(ctx context.Context, id int64) bool
	FindByID(ctx context.Context, id int64) (*models.Balance, error)
	FindAll(ctx context.Context) ([]models.Balance, error)
	// Current returns the stored record, or (nil, nil) when none exists.
	Current(ctx context.Context) (*models.Balance, error)
	FindByMonth(ctx context.Context, month time.Time) (*models.Balance, error)
	// MonthlyBalance computes balance + monthly income - that month's
	// projected expenses.
	MonthlyBalance(ctx context.Context, month time.Time) (decimal.Decimal, error)
}

// SavingsRepository stores savings goals.
type SavingsRepository interface {
	Create(ctx context.Context, g *models.SavingsGoal) error
	Update(ctx context.Context, g *models.SavingsGoal) error
	Delete(ctx context.Context, id int64) bool
	FindByID(ctx context.Context, id int64) (*models.SavingsGoal, error)
	FindAll(ctx context.Context) ([]models.SavingsGoal, error)
	FindByStatus(ctx context.Context, completed bool) ([]models.SavingsGoal, error)
	// UpdateAmount sets the goal's current amount, recomputes its completed
	// flag and, while unfinished, re-estimates the target date.
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) (*models.SavingsGoal, error)
}

// InvestmentRepository stores investment positions.
type InvestmentRepository interface {
	Create(ctx context.Context, inv *models.Investment) error
	Update(ctx context.Context, inv *models.Investment) error
	Delete(ctx context.Context, id int64) bool
	FindByID(ctx context.Context, id int64) (*models.Investment, error)
	FindAll(ctx context.Context) ([]models.Investment, error)
	FindByType(ctx context.Context, t models.InvestmentType) ([]models.Investment, error)
	FindActive(ctx context.Context) ([]models.Investment, error)
	// RefreshValue recomputes the position's current compounded value.
	RefreshValue(ctx context.Context, id int64) (*models.Investment, error)
	RefreshAllValues(ctx context.Context) error
}

// SheetsRepository stores the spreadsheet integration config.
type SheetsRepository interface {
	Create(ctx context.Context, c *models.SheetsConfig) error
	Update(ctx context.Context, c *models.SheetsConfig) error
	Delete(ctx context.Context, id int64) bool
	FindByID(ctx context.Context, id int64) (*models.SheetsConfig, error)
	FindAll(ctx context.Context) ([]models.SheetsConfig, error)
	FindByLastSync(ctx context.Context) ([]models.SheetsConfig, error)
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiry time.Time) (*models.SheetsConfig, error)
}

// Repository is the polymorphic backend contract. Exactly two implementations
// exist: the local embedded store and the remote SQL store.
type Repository interface {
	Type() models.BackendType

	Expenses() ExpenseRepository
	Balance() BalanceRepository
	Savings() SavingsRepository
	Investments() InvestmentRepository
	Sheets() SheetsRepository

	// ExportData snapshots every table into memory.
	ExportData(ctx context.Context) (*models.DataExport, error)
	// ImportData replaces every table's contents with the snapshot's.
	ImportData(ctx context.Context, data *models.DataExport) error
	ClearAll(ctx context.Context) error
	// Backup serializes a full snapshot as a self-describing JSON document
	// that round-trips date values.
	Backup(ctx context.Context) (string, error)
	Restore(ctx context.Context, backup string) error

	Close() error
}
