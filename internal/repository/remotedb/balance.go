package remotedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

type balanceRepo struct {
	s *Store
}

const balanceColumns = `id, amount, monthly_income, date, projected_amount, real_amount`

// Upsert writes into the lowest-id row so the balance stays a singleton;
// only when the table is empty is a new row inserted.
func (r *balanceRepo) Upsert(ctx context.Context, b *models.Balance) error {
	var existingID int64
	err := r.s.db.QueryRowContext(ctx, `SELECT id FROM balance ORDER BY id LIMIT 1`).Scan(&existingID)
	if err == sql.ErrNoRows {
		query := `
			INSERT INTO balance (amount, monthly_income, date, projected_amount, real_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`
		err = r.s.db.QueryRowContext(ctx, query,
			b.Amount, b.MonthlyIncome, r.s.dateToString(b.Date),
			decimalPtrToNull(b.ProjectedAmount), decimalPtrToNull(b.RealAmount)).
			Scan(&b.ID)
		if err != nil {
			return fmt.Errorf("failed to create balance: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up balance: %w", err)
	}

	query := `
		UPDATE balance
		SET amount = $1, monthly_income = $2, date = $3, projected_amount = $4, real_amount = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6`
	_, err = r.s.db.ExecContext(ctx, query,
		b.Amount, b.MonthlyIncome, r.s.dateToString(b.Date),
		decimalPtrToNull(b.ProjectedAmount), decimalPtrToNull(b.RealAmount), existingID)
	if err != nil {
		return fmt.Errorf("failed to update balance %d: %w", existingID, err)
	}
	b.ID = existingID
	return nil
}

func (r *balanceRepo) Delete(ctx context.Context, id int64) bool {
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM balance WHERE id = $1`, id)
	if err != nil {
		r.s.log.Warnf("Failed to delete balance %d: %v", id, err)
		return false
	}
	return true
}

func (r *balanceRepo) FindByID(ctx context.Context, id int64) (*models.Balance, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+balanceColumns+` FROM balance WHERE id = $1`, id)
	b, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *balanceRepo) FindAll(ctx context.Context) ([]models.Balance, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT `+balanceColumns+` FROM balance ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance records: %w", err)
	}
	defer rows.Close()

	balances := []models.Balance{}
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *b)
	}
	return balances, rows.Err()
}

func (r *balanceRepo) Current(ctx context.Context) (*models.Balance, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+balanceColumns+` FROM balance ORDER BY id LIMIT 1`)
	b, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// FindByMonth relies on ISO date strings comparing lexicographically.
func (r *balanceRepo) FindByMonth(ctx context.Context, month time.Time) (*models.Balance, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	query := `SELECT ` + balanceColumns + ` FROM balance WHERE date >= $1 AND date < $2 ORDER BY id LIMIT 1`
	row := r.s.db.QueryRowContext(ctx, query, r.s.dateToString(start), r.s.dateToString(end))
	b, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *balanceRepo) MonthlyBalance(ctx context.Context, month time.Time) (decimal.Decimal, error) {
	current, err := r.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if current == nil {
		return decimal.Zero, nil
	}

	expenses, err := r.s.expenses.FindByMonth(ctx, month)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return current.Amount.Add(current.MonthlyIncome).Sub(total), nil
}

func (r *balanceRepo) scan(row scanner) (*models.Balance, error) {
	b := &models.Balance{}
	var (
		date      string
		projected decimal.NullDecimal
		real      decimal.NullDecimal
	)
	err := row.Scan(&b.ID, &b.Amount, &b.MonthlyIncome, &date, &projected, &real)
	if err != nil {
		return nil, err
	}
	if b.Date, err = stringToDate(date); err != nil {
		return nil, fmt.Errorf("balance %d: %w", b.ID, err)
	}
	b.ProjectedAmount = nullToDecimalPtr(projected)
	b.RealAmount = nullToDecimalPtr(real)
	return b, nil
}
