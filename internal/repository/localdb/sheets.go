package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/models"
)

type sheetsRepo struct {
	s *Store
}

func (r *sheetsRepo) Create(ctx context.Context, c *models.SheetsConfig) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSheetConfig)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		c.ID = id
		return put(b, id, c)
	})
}

func (r *sheetsRepo) Update(ctx context.Context, c *models.SheetsConfig) error {
	return r.s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(bucketSheetConfig), c.ID, c)
	})
}

func (r *sheetsRepo) Delete(ctx context.Context, id int64) bool {
	err := r.s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSheetConfig).Delete(itob(uint64(id)))
	})
	if err != nil {
		r.s.log.Warnf("Failed to delete sheets config %d: %v", id, err)
		return false
	}
	return true
}

func (r *sheetsRepo) FindByID(ctx context.Context, id int64) (*models.SheetsConfig, error) {
	var found *models.SheetsConfig
	err := r.s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSheetConfig).Get(itob(uint64(id)))
		if raw == nil {
			return nil
		}
		c := &models.SheetsConfig{}
		if err := json.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("failed to decode sheets config %d: %w", id, err)
		}
		found = c
		return nil
	})
	return found, err
}

func (r *sheetsRepo) FindAll(ctx context.Context) ([]models.SheetsConfig, error) {
	configs := []models.SheetsConfig{}
	err := r.s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSheetConfig).ForEach(func(k, v []byte) error {
			var c models.SheetsConfig
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("failed to decode sheets config: %w", err)
			}
			configs = append(configs, c)
			return nil
		})
	})
	return configs, err
}

func (r *sheetsRepo) FindByLastSync(ctx context.Context) ([]models.SheetsConfig, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].LastSync, all[j].LastSync
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return all, nil
}

func (r *sheetsRepo) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiry time.Time) (*models.SheetsConfig, error) {
	config, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, fmt.Errorf("sheets config %d not found", id)
	}

	config.AccessToken = accessToken
	config.RefreshToken = refreshToken
	config.TokenExpiry = expiry

	if err := r.Update(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}
