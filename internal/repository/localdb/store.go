// Package localdb implements the repository contract on top of an embedded
// bbolt object store. One bucket per entity, JSON-encoded values, and a
// versioned schema migrated idempotently on every open.
package localdb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
)

// schemaVersion is bumped whenever stored data needs reshaping on open.
const schemaVersion = 3

var (
	bucketExpenses    = []byte("expenses")
	bucketBalance     = []byte("balance")
	bucketSavings     = []byte("savings")
	bucketInvestments = []byte("investments")
	bucketSheetConfig = []byte("sheetConfig")
	bucketMeta        = []byte("meta")

	keySchemaVersion = []byte("schemaVersion")

	entityBuckets = [][]byte{bucketExpenses, bucketBalance, bucketSavings, bucketInvestments, bucketSheetConfig}
)

// Store is the local embedded backend.
type Store struct {
	db   *bolt.DB
	log  *logrus.Logger
	path string

	expenses    *expenseRepo
	balance     *balanceRepo
	savings     *savingsRepo
	investments *investmentRepo
	sheets      *sheetsRepo
}

// Open opens (creating if needed) the database file, declares every bucket
// and runs pending data migrations. Migration failures are fatal: the store
// never serves a partial schema.
func Open(path string, log *logrus.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	s := &Store{db: db, log: log, path: path}
	s.expenses = &expenseRepo{s}
	s.balance = &balanceRepo{s}
	s.savings = &savingsRepo{s}
	s.investments = &investmentRepo{s}
	s.sheets = &sheetsRepo{s}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate local database: %w", err)
	}
	return s, nil
}

// migrate creates missing buckets and reshapes stored data up to the current
// schema version, all inside one transaction.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range append(entityBuckets, bucketMeta) {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		version := 0
		if raw := tx.Bucket(bucketMeta).Get(keySchemaVersion); raw != nil {
			v, err := strconv.Atoi(string(raw))
			if err != nil {
				return fmt.Errorf("corrupt schema version %q: %w", raw, err)
			}
			version = v
		}

		if version > 0 && version < 2 {
			if err := migrateBalanceIncome(tx); err != nil {
				return err
			}
		}
		if version > 0 && version < 3 {
			if err := migrateExpenseHistory(tx); err != nil {
				return err
			}
		}

		if version != schemaVersion {
			s.log.Infof("Local database migrated from schema version %d to %d", version, schemaVersion)
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, []byte(strconv.Itoa(schemaVersion)))
	})
}

// migrateBalanceIncome backfills a zero monthlyIncome on balance records
// written before the field existed.
func migrateBalanceIncome(tx *bolt.Tx) error {
	b := tx.Bucket(bucketBalance)
	return b.ForEach(func(k, v []byte) error {
		var record map[string]any
		if err := json.Unmarshal(v, &record); err != nil {
			return fmt.Errorf("failed to decode balance record: %w", err)
		}
		if _, ok := record["monthlyIncome"]; ok {
			return nil
		}
		record["monthlyIncome"] = "0"
		updated, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode balance record: %w", err)
		}
		return b.Put(k, updated)
	})
}

// migrateExpenseHistory backfills the paymentHistory list on expenses written
// before it existed; an expense already marked paid gets one paid entry at its
// next payment date.
func migrateExpenseHistory(tx *bolt.Tx) error {
	b := tx.Bucket(bucketExpenses)
	return b.ForEach(func(k, v []byte) error {
		var record map[string]any
		if err := json.Unmarshal(v, &record); err != nil {
			return fmt.Errorf("failed to decode expense record: %w", err)
		}
		if _, ok := record["paymentHistory"]; ok {
			return nil
		}
		history := []any{}
		isPaid, _ := record["isPaid"].(bool)
		if next, ok := record["nextPaymentDate"].(string); ok && isPaid {
			history = append(history, map[string]any{"date": next, "isPaid": true})
		}
		record["paymentHistory"] = history
		updated, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode expense record: %w", err)
		}
		return b.Put(k, updated)
	})
}

func (s *Store) Type() models.BackendType { return models.BackendLocal }

func (s *Store) Expenses() repository.ExpenseRepository       { return s.expenses }
func (s *Store) Balance() repository.BalanceRepository        { return s.balance }
func (s *Store) Savings() repository.SavingsRepository        { return s.savings }
func (s *Store) Investments() repository.InvestmentRepository { return s.investments }
func (s *Store) Sheets() repository.SheetsRepository          { return s.sheets }

func (s *Store) Close() error { return s.db.Close() }

// Destroy closes the store and deletes the database file entirely. This is
// the whole-database reset, distinct from ClearAll which empties buckets but
// keeps the file and schema.
func (s *Store) Destroy() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close local database: %w", err)
	}
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("failed to delete local database file: %w", err)
	}
	return nil
}

func itob(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

// put JSON-encodes a record under its id in the given bucket.
func put(b *bolt.Bucket, id int64, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return b.Put(itob(uint64(id)), raw)
}

// nextID assigns the bucket's next autoincrement id.
func nextID(b *bolt.Bucket) (int64, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, fmt.Errorf("failed to assign id: %w", err)
	}
	return int64(seq), nil
}
