package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/finance"
	"github.com/mvidal/gastos/internal/models"
)

type investmentRepo struct {
	s *Store
}

func (r *investmentRepo) Create(ctx context.Context, inv *models.Investment) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketInvestments)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		inv.ID = id
		return put(b, id, inv)
	})
}

func (r *investmentRepo) Update(ctx context.Context, inv *models.Investment) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(bucketInvestments), inv.ID, inv)
	})
}

func (r *investmentRepo) Delete(ctx context.Context, id int64) bool {
	err := r.s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInvestments).Delete(itob(uint64(id)))
	})
	if err != nil {
		r.s.log.Warnf("Failed to delete investment %d: %v", id, err)
		return false
	}
	return true
}

func (r *investmentRepo) FindByID(ctx context.Context, id int64) (*models.Investment, error) {
	var found *models.Investment
	err := r.s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketInvestments).Get(itob(uint64(id)))
		if raw == nil {
			return nil
		}
		inv := &models.Investment{}
		if err := json.Unmarshal(raw, inv); err != nil {
			return fmt.Errorf("failed to decode investment %d: %w", id, err)
		}
		found = inv
		return nil
	})
	return found, err
}

func (r *investmentRepo) FindAll(ctx context.Context) ([]models.Investment, error) {
	investments := []models.Investment{}
	err := r.s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInvestments).ForEach(func(k, v []byte) error {
			var inv models.Investment
			if err := json.Unmarshal(v, &inv); err != nil {
				return fmt.Errorf("failed to decode investment: %w", err)
			}
			investments = append(investments, inv)
			return nil
		})
	})
	return investments, err
}

func (r *investmentRepo) FindByType(ctx context.Context, t models.InvestmentType) ([]models.Investment, error) {
	return r.filter(ctx, func(inv *models.Investment) bool { return inv.Type == t })
}

func (r *investmentRepo) FindActive(ctx context.Context) ([]models.Investment, error) {
	return r.filter(ctx, func(inv *models.Investment) bool { return inv.IsActive })
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

func (r *investmentRepo) filter(ctx context.Context, keep func(*models.Investment) bool) ([]models.Investment, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.Investment{}
	for i := range all {
		if keep(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
}
