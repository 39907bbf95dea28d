package remotedb

import "fmt"

// SQL table names. Dates are stored as ISO-8601 TEXT so values survive a
// round trip through export snapshots unchanged, and booleans as 0/1
// integers to match the snapshot encoding.
const (
	tableExpenses     = "expenses"
	tableBalance      = "balance"
	tableSavings      = "savings_goals"
	tableInvestments  = "investments"
	tableSheetsConfig = "google_sheets_config"
	tableSyncMetadata = "sync_metadata"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id SERIAL PRIMARY KEY,
		amount NUMERIC(14,2) NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		frequency TEXT NOT NULL CHECK (frequency IN ('one-time', 'monthly', 'bi-monthly', 'quarterly', 'annual')),
		next_payment_date TEXT,
		is_paid INTEGER NOT NULL DEFAULT 0,
		payment_history TEXT NOT NULL DEFAULT '[]',
		duration INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses (date)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses (category)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_frequency ON expenses (frequency)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_is_paid ON expenses (is_paid)`,

	`CREATE TABLE IF NOT EXISTS balance (
		id SERIAL PRIMARY KEY,
		amount NUMERIC(14,2) NOT NULL,
		monthly_income NUMERIC(14,2) NOT NULL DEFAULT 0,
		date TEXT NOT NULL,
		projected_amount NUMERIC(14,2),
		real_amount NUMERIC(14,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_balance_date ON balance (date)`,

	`CREATE TABLE IF NOT EXISTS savings_goals (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		target_amount NUMERIC(14,2) NOT NULL,
		current_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		monthly_contribution NUMERIC(14,2) NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL,
		target_date TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_savings_start_date ON savings_goals (start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_savings_completed ON savings_goals (completed)`,

	`CREATE TABLE IF NOT EXISTS investments (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('fixed-deposit', 'savings-account', 'government-bond', 'mutual-fund', 'other')),
		initial_amount NUMERIC(14,2) NOT NULL,
		current_amount NUMERIC(14,2) NOT NULL,
		annual_rate DOUBLE PRECISION NOT NULL,
		start_date TEXT NOT NULL,
		term_months INTEGER NOT NULL,
		maturity_date TEXT NOT NULL,
		compounding_frequency TEXT NOT NULL CHECK (compounding_frequency IN ('daily', 'monthly', 'quarterly', 'semi-annual', 'annual')),
		is_active INTEGER NOT NULL DEFAULT 1,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_investments_start_date ON investments (start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_investments_type ON investments (type)`,
	`CREATE INDEX IF NOT EXISTS idx_investments_is_active ON investments (is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_investments_maturity_date ON investments (maturity_date)`,

	`CREATE TABLE IF NOT EXISTS google_sheets_config (
		id SERIAL PRIMARY KEY,
		client_id TEXT NOT NULL,
		client_secret TEXT NOT NULL,
		access_token TEXT NOT NULL DEFAULT '',
		refresh_token TEXT NOT NULL DEFAULT '',
		token_expiry TEXT NOT NULL DEFAULT '',
		spreadsheet_id TEXT NOT NULL,
		sheet_name TEXT NOT NULL,
		last_sync TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_google_sheets_last_sync ON google_sheets_config (last_sync)`,
	`CREATE INDEX IF NOT EXISTS idx_google_sheets_token_expiry ON google_sheets_config (token_expiry)`,

	`CREATE TABLE IF NOT EXISTS sync_metadata (
		id SERIAL PRIMARY KEY,
		table_name TEXT NOT NULL UNIQUE,
		record_count INTEGER NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var trackedTables = []string{tableExpenses, tableBalance, tableSavings, tableInvestments, tableSheetsConfig}

// ensureSchema declares every table and index and seeds a sync_metadata row
// per tracked table. It runs exactly once, when the store is opened.
func (s *Store) ensureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	for _, table := range trackedTables {
		_, err := s.db.Exec(
			`INSERT INTO sync_metadata (table_name, record_count) VALUES ($1, 0) ON CONFLICT (table_name) DO NOTHING`,
			table,
		)
		if err != nil {
			return fmt.Errorf("failed to seed sync metadata for %s: %w", table, err)
		}
	}
	return nil
}
