package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/models"
)

type balanceRepo struct {
	s *Store
}

// Upsert writes into the first stored record so the balance stays a
// singleton; only when the bucket is empty is a new record created.
func (r *balanceRepo) Upsert(ctx context.Context, b *models.Balance) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBalance)
		if k, v := bucket.Cursor().First(); k != nil {
			var existing models.Balance
			if err := json.Unmarshal(v, &existing); err != nil {
				return fmt.Errorf("failed to decode balance record: %w", err)
			}
			b.ID = existing.ID
			return put(bucket, b.ID, b)
		}
		id, err := nextID(bucket)
		if err != nil {
			return err
		}
		b.ID = id
		return put(bucket, id, b)
	})
}

func (r *balanceRepo) Delete(ctx context.Context, id int64) bool {
	err := r.s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBalance).Delete(itob(uint64(id)))
	})
	if err != nil {
		r.s.log.Warnf("Failed to delete balance %d: %v", id, err)
		return false
	}
	return true
}

func (r *balanceRepo) FindByID(ctx context.Context, id int64) (*models.Balance, error) {
	var found *models.Balance
	err := r.s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketBalance).Get(itob(uint64(id)))
		if raw == nil {
			return nil
		}
		b := &models.Balance{}
		if err := json.Unmarshal(raw, b); err != nil {
			return fmt.Errorf("failed to decode balance %d: %w", id, err)
		}
		found = b
		return nil
	})
	return found, err
}

func (r *balanceRepo) FindAll(ctx context.Context) ([]models.Balance, error) {
	balances := []models.Balance{}
	err := r.s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBalance).ForEach(func(k, v []byte) error {
			var b models.Balance
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("failed to decode balance record: %w", err)
			}
			balances = append(balances, b)
			return nil
		})
	})
	return balances, err
}

func (r *balanceRepo) Current(ctx context.Context) (*models.Balance, error) {
	all, err := r.FindAll(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

func (r *balanceRepo) FindByMonth(ctx context.Context, month time.Time) (*models.Balance, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Date.Year() == month.Year() && all[i].Date.Month() == month.Month() {
			return &all[i], nil
		}
	}
	return nil, nil
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
