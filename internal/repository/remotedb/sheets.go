package remotedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mvidal/gastos/internal/models"
)

type sheetsRepo struct {
	s *Store
}

const sheetsColumns = `id, client_id, client_secret, access_token, refresh_token, token_expiry, spreadsheet_id, sheet_name, last_sync`

func (r *sheetsRepo) Create(ctx context.Context, c *models.SheetsConfig) error {
	query := `
		INSERT INTO google_sheets_config (client_id, client_secret, access_token, refresh_token, token_expiry, spreadsheet_id, sheet_name, last_sync)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.s.db.QueryRowContext(ctx, query,
		c.ClientID, c.ClientSecret, c.AccessToken, c.RefreshToken,
		r.s.dateToString(c.TokenExpiry), c.SpreadsheetID, c.SheetName, r.s.datePtrToNull(c.LastSync)).
		Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create sheets config: %w", err)
	}
	return nil
}

func (r *sheetsRepo) Update(ctx context.Context, c *models.SheetsConfig) error {
	query := `
		UPDATE google_sheets_config
		SET client_id = $1, client_secret = $2, access_token = $3, refresh_token = $4,
		    token_expiry = $5, spreadsheet_id = $6, sheet_name = $7, last_sync = $8,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $9`
	_, err := r.s.db.ExecContext(ctx, query,
		c.ClientID, c.ClientSecret, c.AccessToken, c.RefreshToken,
		r.s.dateToString(c.TokenExpiry), c.SpreadsheetID, c.SheetName, r.s.datePtrToNull(c.LastSync), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update sheets config %d: %w", c.ID, err)
	}
	return nil
}

func (r *sheetsRepo) Delete(ctx context.Context, id int64) bool {
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM google_sheets_config WHERE id = $1`, id)
	if err != nil {
		r.s.log.Warnf("Failed to delete sheets config %d: %v", id, err)
		return false
	}
	return true
}

func (r *sheetsRepo) FindByID(ctx context.Context, id int64) (*models.SheetsConfig, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+sheetsColumns+` FROM google_sheets_config WHERE id = $1`, id)
	c, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *sheetsRepo) FindAll(ctx context.Context) ([]models.SheetsConfig, error) {
	return r.query(ctx, `SELECT `+sheetsColumns+` FROM google_sheets_config ORDER BY id`)
}

func (r *sheetsRepo) FindByLastSync(ctx context.Context) ([]models.SheetsConfig, error) {
	return r.query(ctx, `SELECT `+sheetsColumns+` FROM google_sheets_config ORDER BY last_sync DESC NULLS LAST`)
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

func (r *sheetsRepo) query(ctx context.Context, query string, args ...any) ([]models.SheetsConfig, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheets configs: %w", err)
	}
	defer rows.Close()

	configs := []models.SheetsConfig{}
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

func (r *sheetsRepo) scan(row scanner) (*models.SheetsConfig, error) {
	c := &models.SheetsConfig{}
	var (
		expiry   string
		lastSync sql.NullString
	)
	err := row.Scan(&c.ID, &c.ClientID, &c.ClientSecret, &c.AccessToken, &c.RefreshToken,
		&expiry, &c.SpreadsheetID, &c.SheetName, &lastSync)
	if err != nil {
		return nil, err
	}
	if expiry != "" {
		if c.TokenExpiry, err = stringToDate(expiry); err != nil {
			return nil, fmt.Errorf("sheets config %d: %w", c.ID, err)
		}
	}
	if c.LastSync, err = nullToDatePtr(lastSync); err != nil {
		return nil, fmt.Errorf("sheets config %d: %w", c.ID, err)
	}
	return c, nil
}
