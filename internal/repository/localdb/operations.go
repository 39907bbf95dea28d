package localdb

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
)

// ExportData snapshots every bucket into memory. Slices are always non-nil so
// the snapshot serializes as arrays, never null.
func (s *Store) ExportData(ctx context.Context) (*models.DataExport, error) {
	export := &models.DataExport{}
	var err error

	if export.Expenses, err = s.expenses.FindAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export expenses: %w", err)
	}
	if export.Balance, err = s.balance.FindAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export balance: %w", err)
	}
	if export.Savings, err = s.savings.FindAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export savings goals: %w", err)
	}
	if export.Investments, err = s.investments.FindAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export investments: %w", err)
	}
	if export.SheetConfig, err = s.sheets.FindAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export sheets configs: %w", err)
	}
	return export, nil
}

// ImportData replaces every bucket's contents with the snapshot's records.
// Imported records get fresh ids from the bucket sequence.
func (s *Store) ImportData(ctx context.Context, data *models.DataExport) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range entityBuckets {
			if err := recreateBucket(tx, name); err != nil {
				return err
			}
		}

		for i := range data.Expenses {
			if err := importRecord(tx, bucketExpenses, func(id int64) any {
				data.Expenses[i].ID = id
				return &data.Expenses[i]
			}); err != nil {
				return fmt.Errorf("failed to import expense: %w", err)
			}
		}
		for i := range data.Balance {
			if err := importRecord(tx, bucketBalance, func(id int64) any {
				data.Balance[i].ID = id
				return &data.Balance[i]
			}); err != nil {
				return fmt.Errorf("failed to import balance: %w", err)
			}
		}
		for i := range data.Savings {
			if err := importRecord(tx, bucketSavings, func(id int64) any {
				data.Savings[i].ID = id
				return &data.Savings[i]
			}); err != nil {
				return fmt.Errorf("failed to import savings goal: %w", err)
			}
		}
		for i := range data.Investments {
			if err := importRecord(tx, bucketInvestments, func(id int64) any {
				data.Investments[i].ID = id
				return &data.Investments[i]
			}); err != nil {
				return fmt.Errorf("failed to import investment: %w", err)
			}
		}
		for i := range data.SheetConfig {
			if err := importRecord(tx, bucketSheetConfig, func(id int64) any {
				data.SheetConfig[i].ID = id
				return &data.SheetConfig[i]
			}); err != nil {
				return fmt.Errorf("failed to import sheets config: %w", err)
			}
		}

		s.log.Infof("Imported %d records into local database", data.TotalRecords())
		return nil
	})
}

// ClearAll empties every entity bucket but keeps the file and schema.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range entityBuckets {
			if err := recreateBucket(tx, name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Backup serializes a full snapshot as self-describing JSON.
func (s *Store) Backup(ctx context.Context) (string, error) {
	export, err := s.ExportData(ctx)
	if err != nil {
		return "", err
	}
	return repository.EncodeBackup(export)
}

// Restore replaces the database contents with a backup produced by Backup.
func (s *Store) Restore(ctx context.Context, backup string) error {
	export, err := repository.DecodeBackup(backup)
	if err != nil {
		return err
	}
	return s.ImportData(ctx, export)
}

// recreateBucket drops and redeclares a bucket, resetting its id sequence.
func recreateBucket(tx *bolt.Tx, name []byte) error {
	if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
		return fmt.Errorf("failed to clear bucket %s: %w", name, err)
	}
	if _, err := tx.CreateBucket(name); err != nil {
		return fmt.Errorf("failed to recreate bucket %s: %w", name, err)
	}
	return nil
}

// importRecord assigns the bucket's next id, lets the caller stamp it on the
// record, and persists the result.
func importRecord(tx *bolt.Tx, name []byte, stamp func(id int64) any) error {
	b := tx.Bucket(name)
	id, err := nextID(b)
	if err != nil {
		return err
	}
	return put(b, id, stamp(id))
}
