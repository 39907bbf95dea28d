package remotedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/finance"
	"github.com/mvidal/gastos/internal/models"
)

type savingsRepo struct {
	s *Store
}

const savingsColumns = `id, name, description, target_amount, current_amount, monthly_contribution, start_date, target_date, completed`

func (r *savingsRepo) Create(ctx context.Context, g *models.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (name, description, target_amount, current_amount, monthly_contribution, start_date, target_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.s.db.QueryRowContext(ctx, query,
		g.Name, g.Description, g.TargetAmount, g.CurrentAmount, g.MonthlyContribution,
		r.s.dateToString(g.StartDate), r.s.datePtrToNull(g.TargetDate), boolToInt(g.Completed)).
		Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

func (r *savingsRepo) Update(ctx context.Context, g *models.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = $1, description = $2, target_amount = $3, current_amount = $4,
		    monthly_contribution = $5, start_date = $6, target_date = $7, completed = $8,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $9`
	_, err := r.s.db.ExecContext(ctx, query,
		g.Name, g.Description, g.TargetAmount, g.CurrentAmount, g.MonthlyContribution,
		r.s.dateToString(g.StartDate), r.s.datePtrToNull(g.TargetDate), boolToInt(g.Completed), g.ID)
	if err != nil {
		return fmt.Errorf("failed to update savings goal %d: %w", g.ID, err)
	}
	return nil
}

func (r *savingsRepo) Delete(ctx context.Context, id int64) bool {
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		r.s.log.Warnf("Failed to delete savings goal %d: %v", id, err)
		return false
	}
	return true
}

func (r *savingsRepo) FindByID(ctx context.Context, id int64) (*models.SavingsGoal, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+savingsColumns+` FROM savings_goals WHERE id = $1`, id)
	g, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *savingsRepo) FindAll(ctx context.Context) ([]models.SavingsGoal, error) {
	return r.query(ctx, `SELECT `+savingsColumns+` FROM savings_goals ORDER BY id`)
}

func (r *savingsRepo) FindByStatus(ctx context.Context, completed bool) ([]models.SavingsGoal, error) {
	return r.query(ctx, `SELECT `+savingsColumns+` FROM savings_goals WHERE completed = $1 ORDER BY id`, boolToInt(completed))
}

func (r *savingsRepo) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) (*models.SavingsGoal, error) {
	goal, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("savings goal %d not found", id)
	}

	finance.ApplySavingsAmount(goal, amount)

	if err := r.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *savingsRepo) query(ctx context.Context, query string, args ...any) ([]models.SavingsGoal, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer rows.Close()

	goals := []models.SavingsGoal{}
	for rows.Next() {
		g, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (r *savingsRepo) scan(row scanner) (*models.SavingsGoal, error) {
	g := &models.SavingsGoal{}
	var (
		start     string
		target    sql.NullString
		completed int
	)
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.TargetAmount, &g.CurrentAmount, &g.MonthlyContribution, &start, &target, &completed)
	if err != nil {
		return nil, err
	}
	if g.StartDate, err = stringToDate(start); err != nil {
		return nil, fmt.Errorf("savings goal %d: %w", g.ID, err)
	}
	if g.TargetDate, err = nullToDatePtr(target); err != nil {
		return nil, fmt.Errorf("savings goal %d: %w", g.ID, err)
	}
	g.Completed = intToBool(completed)
	return g, nil
}
