package localdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/finance"
	"github.com/mvidal/gastos/internal/models"
)

type savingsRepo struct {
	s *Store
}

func (r *savingsRepo) Create(ctx context.Context, g *models.SavingsGoal) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSavings)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		g.ID = id
		return put(b, id, g)
	})
}

func (r *savingsRepo) Update(ctx context.Context, g *models.SavingsGoal) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(bucketSavings), g.ID, g)
	})
}

func (r *savingsRepo) Delete(ctx context.Context, id int64) bool {
	err := r.s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSavings).Delete(itob(uint64(id)))
	})
	if err != nil {
		r.s.log.Warnf("Failed to delete savings goal %d: %v", id, err)
		return false
	}
	return true
}

func (r *savingsRepo) FindByID(ctx context.Context, id int64) (*models.SavingsGoal, error) {
	var found *models.SavingsGoal
	err := r.s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSavings).Get(itob(uint64(id)))
		if raw == nil {
			return nil
		}
		g := &models.SavingsGoal{}
		if err := json.Unmarshal(raw, g); err != nil {
			return fmt.Errorf("failed to decode savings goal %d: %w", id, err)
		}
		found = g
		return nil
	})
	return found, err
}

func (r *savingsRepo) FindAll(ctx context.Context) ([]models.SavingsGoal, error) {
	goals := []models.SavingsGoal{}
	err := r.s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSavings).ForEach(func(k, v []byte) error {
			var g models.SavingsGoal
			if err := json.Unmarshal(v, &g); err != nil {
				return fmt.Errorf("failed to decode savings goal: %w", err)
			}
			goals = append(goals, g)
			return nil
		})
	})
	return goals, err
}

func (r *savingsRepo) FindByStatus(ctx context.Context, completed bool) ([]models.SavingsGoal, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.SavingsGoal{}
	for i := range all {
		if all[i].Completed == completed {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
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
