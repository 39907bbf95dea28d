package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/projection"
)

type expenseRepo struct {
	s *Store
}

func (r *expenseRepo) Create(ctx context.Context, e *models.Expense) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketExpenses)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		e.ID = id
		return put(b, id, e)
	})
}

func (r *expenseRepo) Update(ctx context.Context, e *models.Expense) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(bucketExpenses), e.ID, e)
	})
}

func (r *expenseRepo) Delete(ctx context.Context, id int64) bool {
	err := r.s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketExpenses).Delete(itob(uint64(id)))
	})
	if err != nil {
		r.s.log.Warnf("Failed to delete expense %d: %v", id, err)
		return false
	}
	return true
}

func (r *expenseRepo) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	var found *models.Expense
	err := r.s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketExpenses).Get(itob(uint64(id)))
		if raw == nil {
			return nil
		}
		e := &models.Expense{}
		if err := json.Unmarshal(raw, e); err != nil {
			return fmt.Errorf("failed to decode expense %d: %w", id, err)
		}
		found = e
		return nil
	})
	return found, err
}

func (r *expenseRepo) FindAll(ctx context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	err := r.s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketExpenses).ForEach(func(k, v []byte) error {
			var e models.Expense
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to decode expense: %w", err)
			}
			expenses = append(expenses, e)
			return nil
		})
	})
	return expenses, err
}

func (r *expenseRepo) FindByMonth(ctx context.Context, month time.Time) ([]models.Expense, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return projection.ForMonth(all, month), nil
}

func (r *expenseRepo) FindByCategory(ctx context.Context, category string) ([]models.Expense, error) {
	return r.filter(ctx, func(e *models.Expense) bool { return e.Category == category })
}

func (r *expenseRepo) FindByFrequency(ctx context.Context, f models.Frequency) ([]models.Expense, error) {
	return r.filter(ctx, func(e *models.Expense) bool { return e.Frequency == f })
}

func (r *expenseRepo) FindByPaidStatus(ctx context.Context, isPaid bool) ([]models.Expense, error) {
	return r.filter(ctx, func(e *models.Expense) bool { return e.IsPaid == isPaid })
}

func (r *expenseRepo) Upcoming(ctx context.Context, months int) ([]models.Expense, error) {
	cutoff := time.Now().AddDate(0, months, 0)
	return r.filter(ctx, func(e *models.Expense) bool {
		if e.Frequency == models.FrequencyOneTime {
			return false
		}
		next := e.Date
		if e.NextPaymentDate != nil {
			next = *e.NextPaymentDate
		}
		return !next.After(cutoff)
	})
}

// filter scans the whole bucket; the datasets here are small by design.
func (r *expenseRepo) filter(ctx context.Context, keep func(*models.Expense) bool) ([]models.Expense, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.Expense{}
	for i := range all {
		if keep(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
}
