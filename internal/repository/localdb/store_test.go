package localdb

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gastos.db"), testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.db")
	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening an already current database must be a no-op.
	s, err = Open(path, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	expenses, err := s.Expenses().FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if expenses == nil || len(expenses) != 0 {
		t.Errorf("expected an empty non-nil slice, got %v", expenses)
	}
}

// Legacy databases predate the monthlyIncome and paymentHistory fields; the
// migration on open must backfill both.
func TestMigrationBackfillsLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.db")

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatalf("bolt.Open: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range append(entityBuckets, bucketMeta) {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		legacyBalance := map[string]any{"id": 1, "amount": "500", "date": "2024-01-01T00:00:00Z"}
		raw, _ := json.Marshal(legacyBalance)
		if err := tx.Bucket(bucketBalance).Put(itob(1), raw); err != nil {
			return err
		}
		legacyExpense := map[string]any{
			"id": 1, "amount": "80", "category": "gym", "date": "2024-01-01T00:00:00Z",
			"frequency": "monthly", "isPaid": true, "nextPaymentDate": "2024-02-01T00:00:00Z",
		}
		raw, _ = json.Marshal(legacyExpense)
		if err := tx.Bucket(bucketExpenses).Put(itob(1), raw); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, []byte("1"))
	})
	if err != nil {
		t.Fatalf("seeding legacy data: %v", err)
	}
	db.Close()

	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	balance, err := s.Balance().FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if balance == nil || !balance.MonthlyIncome.IsZero() {
		t.Errorf("expected a backfilled zero monthly income, got %+v", balance)
	}

	expense, err := s.Expenses().FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if expense == nil {
		t.Fatal("legacy expense disappeared during migration")
	}
	if len(expense.PaymentHistory) != 1 || !expense.PaymentHistory[0].IsPaid {
		t.Errorf("expected one paid backfilled history entry, got %+v", expense.PaymentHistory)
	}
	if want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC); !expense.PaymentHistory[0].Date.Equal(want) {
		t.Errorf("backfilled entry date %v, want %v", expense.PaymentHistory[0].Date, want)
	}
}

func TestDestroyRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.db")
	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	// The file is gone, so a fresh open starts from an empty database.
	s, err = Open(path, testLogger())
	if err != nil {
		t.Fatalf("reopen after destroy: %v", err)
	}
	defer s.Close()
	expenses, err := s.Expenses().FindAll(context.Background())
	if err != nil || len(expenses) != 0 {
		t.Errorf("expected an empty database after destroy, got %v (%v)", expenses, err)
	}
}
