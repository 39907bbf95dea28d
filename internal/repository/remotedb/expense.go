package remotedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/projection"
)

type expenseRepo struct {
	s *Store
}

const expenseColumns = `id, amount, category, description, date, frequency, next_payment_date, is_paid, payment_history, duration`

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *expenseRepo) Create(ctx context.Context, e *models.Expense) error {
	history, err := historyToJSON(e.PaymentHistory)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO expenses (amount, category, description, date, frequency, next_payment_date, is_paid, payment_history, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err = r.s.db.QueryRowContext(ctx, query,
		e.Amount, e.Category, e.Description, r.s.dateToString(e.Date), e.Frequency,
		r.s.datePtrToNull(e.NextPaymentDate), boolToInt(e.IsPaid), history, e.Duration).
		Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *expenseRepo) Update(ctx context.Context, e *models.Expense) error {
	history, err := historyToJSON(e.PaymentHistory)
	if err != nil {
		return err
	}
	query := `
		UPDATE expenses
		SET amount = $1, category = $2, description = $3, date = $4, frequency = $5,
		    next_payment_date = $6, is_paid = $7, payment_history = $8, duration = $9,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $10`
	_, err = r.s.db.ExecContext(ctx, query,
		e.Amount, e.Category, e.Description, r.s.dateToString(e.Date), e.Frequency,
		r.s.datePtrToNull(e.NextPaymentDate), boolToInt(e.IsPaid), history, e.Duration, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %w", e.ID, err)
	}
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, id int64) bool {
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		r.s.log.Warnf("Failed to delete expense %d: %v", id, err)
		return false
	}
	return true
}

func (r *expenseRepo) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	e, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *expenseRepo) FindAll(ctx context.Context) ([]models.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY id`)
}

func (r *expenseRepo) FindByMonth(ctx context.Context, month time.Time) ([]models.Expense, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return projection.ForMonth(all, month), nil
}

func (r *expenseRepo) FindByCategory(ctx context.Context, category string) ([]models.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE category = $1 ORDER BY id`, category)
}

func (r *expenseRepo) FindByFrequency(ctx context.Context, f models.Frequency) ([]models.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE frequency = $1 ORDER BY id`, f)
}

func (r *expenseRepo) FindByPaidStatus(ctx context.Context, isPaid bool) ([]models.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE is_paid = $1 ORDER BY id`, boolToInt(isPaid))
}

func (r *expenseRepo) Upcoming(ctx context.Context, months int) ([]models.Expense, error) {
	cutoff := r.s.dateToString(time.Now().AddDate(0, months, 0))
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE frequency <> $1 AND COALESCE(next_payment_date, date) <= $2
		ORDER BY COALESCE(next_payment_date, date)`
	return r.query(ctx, query, models.FrequencyOneTime, cutoff)
}

func (r *expenseRepo) query(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (r *expenseRepo) scan(row scanner) (*models.Expense, error) {
	e := &models.Expense{}
	var (
		date    string
		next    sql.NullString
		isPaid  int
		history string
	)
	err := row.Scan(&e.ID, &e.Amount, &e.Category, &e.Description, &date, &e.Frequency, &next, &isPaid, &history, &e.Duration)
	if err != nil {
		return nil, err
	}
	if e.Date, err = stringToDate(date); err != nil {
		return nil, fmt.Errorf("expense %d: %w", e.ID, err)
	}
	if e.NextPaymentDate, err = nullToDatePtr(next); err != nil {
		return nil, fmt.Errorf("expense %d: %w", e.ID, err)
	}
	e.IsPaid = intToBool(isPaid)
	if e.PaymentHistory, err = historyFromJSON(history); err != nil {
		return nil, fmt.Errorf("expense %d: %w", e.ID, err)
	}
	return e, nil
}
