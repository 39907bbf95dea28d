package remotedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mvidal/gastos/internal/finance"
	"github.com/mvidal/gastos/internal/models"
)

type investmentRepo struct {
	s *Store
}

const investmentColumns = `id, name, type, initial_amount, current_amount, annual_rate, start_date, term_months, maturity_date, compounding_frequency, is_active, notes`

func (r *investmentRepo) Create(ctx context.Context, inv *models.Investment) error {
	query := `
		INSERT INTO investments (name, type, initial_amount, current_amount, annual_rate, start_date, term_months, maturity_date, compounding_frequency, is_active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.s.db.QueryRowContext(ctx, query,
		inv.Name, inv.Type, inv.InitialAmount, inv.CurrentAmount, inv.AnnualRate,
		r.s.dateToString(inv.StartDate), inv.TermMonths, r.s.dateToString(inv.MaturityDate),
		inv.CompoundingFrequency, boolToInt(inv.IsActive), inv.Notes).
		Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (r *investmentRepo) Update(ctx context.Context, inv *models.Investment) error {
	query := `
		UPDATE investments
		SET name = $1, type = $2, initial_amount = $3, current_amount = $4, annual_rate = $5,
		    start_date = $6, term_months = $7, maturity_date = $8, compounding_frequency = $9,
		    is_active = $10, notes = $11, updated_at = CURRENT_TIMESTAMP
		WHERE id = $12`
	_, err := r.s.db.ExecContext(ctx, query,
		inv.Name, inv.Type, inv.InitialAmount, inv.CurrentAmount, inv.AnnualRate,
		r.s.dateToString(inv.StartDate), inv.TermMonths, r.s.dateToString(inv.MaturityDate),
		inv.CompoundingFrequency, boolToInt(inv.IsActive), inv.Notes, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update investment %d: %w", inv.ID, err)
	}
	return nil
}

func (r *investmentRepo) Delete(ctx context.Context, id int64) bool {
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		r.s.log.Warnf("Failed to delete investment %d: %v", id, err)
		return false
	}
	return true
}

func (r *investmentRepo) FindByID(ctx context.Context, id int64) (*models.Investment, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id)
	inv, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *investmentRepo) FindAll(ctx context.Context) ([]models.Investment, error) {
	return r.query(ctx, `SELECT `+investmentColumns+` FROM investments ORDER BY id`)
}

func (r *investmentRepo) FindByType(ctx context.Context, t models.InvestmentType) ([]models.Investment, error) {
	return r.query(ctx, `SELECT `+investmentColumns+` FROM investments WHERE type = $1 ORDER BY id`, t)
}

func (r *investmentRepo) FindActive(ctx context.Context) ([]models.Investment, error) {
	return r.query(ctx, `SELECT `+investmentColumns+` FROM investments WHERE is_active = 1 ORDER BY id`)
}

func (r *investmentRepo) RefreshValue(ctx context.Context, id int64) (*models.Investment, error) {
	inv, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("investment %d not found", id)
	}

	inv.CurrentAmount = finance.CurrentValue(inv, time.Now())
	if err := r.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *investmentRepo) RefreshAllValues(ctx context.Context) error {
	active, err := r.FindActive(ctx)
	if err != nil {
		return err
	}
	for i := range active {
		if _, err := r.RefreshValue(ctx, active[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *investmentRepo) query(ctx context.Context, query string, args ...any) ([]models.Investment, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		inv, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, *inv)
	}
	return investments, rows.Err()
}

func (r *investmentRepo) scan(row scanner) (*models.Investment, error) {
	inv := &models.Investment{}
	var (
		start    string
		maturity string
		isActive int
	)
	err := row.Scan(&inv.ID, &inv.Name, &inv.Type, &inv.InitialAmount, &inv.CurrentAmount, &inv.AnnualRate,
		&start, &inv.TermMonths, &maturity, &inv.CompoundingFrequency, &isActive, &inv.Notes)
	if err != nil {
		return nil, err
	}
	if inv.StartDate, err = stringToDate(start); err != nil {
		return nil, fmt.Errorf("investment %d: %w", inv.ID, err)
	}
	if inv.MaturityDate, err = stringToDate(maturity); err != nil {
		return nil, fmt.Errorf("investment %d: %w", inv.ID, err)
	}
	inv.IsActive = intToBool(isActive)
	return inv, nil
}
