package remotedb

import (
	"context"
	"fmt"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
)

// ExportData snapshots every table into memory.
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

// ImportData replaces every table's contents with the snapshot's records.
// Rows are re-inserted one by one so the database assigns fresh ids, then the
// sync bookkeeping is brought up to date.
func (s *Store) ImportData(ctx context.Context, data *models.DataExport) error {
	if err := s.ClearAll(ctx); err != nil {
		return err
	}

	for i := range data.Expenses {
		if err := s.expenses.Create(ctx, &data.Expenses[i]); err != nil {
			return fmt.Errorf("failed to import expense: %w", err)
		}
	}
	for i := range data.Balance {
		if err := s.importBalance(ctx, &data.Balance[i]); err != nil {
			return fmt.Errorf("failed to import balance: %w", err)
		}
	}
	for i := range data.Savings {
		if err := s.savings.Create(ctx, &data.Savings[i]); err != nil {
			return fmt.Errorf("failed to import savings goal: %w", err)
		}
	}
	for i := range data.Investments {
		if err := s.investments.Create(ctx, &data.Investments[i]); err != nil {
			return fmt.Errorf("failed to import investment: %w", err)
		}
	}
	for i := range data.SheetConfig {
		if err := s.sheets.Create(ctx, &data.SheetConfig[i]); err != nil {
			return fmt.Errorf("failed to import sheets config: %w", err)
		}
	}

	if err := s.refreshSyncMetadata(ctx); err != nil {
		return err
	}
	s.log.Infof("Imported %d records into remote database", data.TotalRecords())
	return nil
}

// importBalance inserts a snapshot row directly, bypassing the singleton
// upsert so multi-row snapshots survive a round trip intact.
func (s *Store) importBalance(ctx context.Context, b *models.Balance) error {
	query := `
		INSERT INTO balance (amount, monthly_income, date, projected_amount, real_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return s.db.QueryRowContext(ctx, query,
		b.Amount, b.MonthlyIncome, s.dateToString(b.Date),
		decimalPtrToNull(b.ProjectedAmount), decimalPtrToNull(b.RealAmount)).
		Scan(&b.ID)
}

// ClearAll empties every tracked table but keeps the schema.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, table := range trackedTables {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
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

// refreshSyncMetadata re-counts every tracked table.
func (s *Store) refreshSyncMetadata(ctx context.Context) error {
	for _, table := range trackedTables {
		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count table %s: %w", table, err)
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO sync_metadata (table_name, record_count, last_updated)
			VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (table_name) DO UPDATE SET record_count = $2, last_updated = CURRENT_TIMESTAMP`,
			table, count)
		if err != nil {
			return fmt.Errorf("failed to update sync metadata for %s: %w", table, err)
		}
	}
	return nil
}
