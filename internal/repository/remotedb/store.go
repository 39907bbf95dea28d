// Package remotedb implements the repository contract on top of a remote
// PostgreSQL database, reached with a connection URL plus auth token pair.
package remotedb

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
)

// Config is the connection info for the remote backend.
type Config struct {
	URL       string
	AuthToken string
}

// Store is the remote SQL backend.
type Store struct {
	db  *sql.DB
	log *logrus.Logger

	expenses    *expenseRepo
	balance     *balanceRepo
	savings     *savingsRepo
	investments *investmentRepo
	sheets      *sheetsRepo
}

// Open connects to the remote database, verifies it is reachable and ensures
// the schema exists. Any failure closes the connection and propagates so the
// caller can fall back to the local backend.
func Open(cfg Config, log *logrus.Logger) (*Store, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach remote database: %w", err)
	}

	s := &Store{db: db, log: log}
	s.expenses = &expenseRepo{s}
	s.balance = &balanceRepo{s}
	s.savings = &savingsRepo{s}
	s.investments = &investmentRepo{s}
	s.sheets = &sheetsRepo{s}

	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare remote schema: %w", err)
	}

	log.Info("Connected to remote database")
	return s, nil
}

// buildDSN injects the auth token as the connection password, keeping any
// username already present in the URL.
func buildDSN(cfg Config) (string, error) {
	if cfg.URL == "" || cfg.AuthToken == "" {
		return "", fmt.Errorf("remote database requires both a URL and an auth token")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid remote database URL: %w", err)
	}
	user := "gastos"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, cfg.AuthToken)
	return u.String(), nil
}

func (s *Store) Type() models.BackendType { return models.BackendRemote }

func (s *Store) Expenses() repository.ExpenseRepository       { return s.expenses }
func (s *Store) Balance() repository.BalanceRepository        { return s.balance }
func (s *Store) Savings() repository.SavingsRepository        { return s.savings }
func (s *Store) Investments() repository.InvestmentRepository { return s.investments }
func (s *Store) Sheets() repository.SheetsRepository          { return s.sheets }

func (s *Store) Close() error { return s.db.Close() }
