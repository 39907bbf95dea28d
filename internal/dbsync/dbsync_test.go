package dbsync

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository/localdb"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openStore(t *testing.T) *localdb.Store {
	t.Helper()
	s, err := localdb.Open(filepath.Join(t.TempDir(), "gastos.db"), testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *localdb.Store, categories ...string) {
	t.Helper()
	ctx := context.Background()
	for _, category := range categories {
		e := &models.Expense{
			Amount:    decimal.NewFromInt(100),
			Category:  category,
			Date:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			Frequency: models.FrequencyMonthly,
		}
		if err := s.Expenses().Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestMetadataSummarizesStore(t *testing.T) {
	svc := NewService(testLogger())
	s := openStore(t)
	seed(t, s, "rent", "food")

	meta, err := svc.Metadata(context.Background(), s)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.RecordCount != 2 {
		t.Errorf("RecordCount = %d, want 2", meta.RecordCount)
	}
	if meta.Source != models.BackendLocal {
		t.Errorf("Source = %s, want local", meta.Source)
	}
	if meta.Checksum == "" {
		t.Error("expected a checksum")
	}
}

func TestMetadataChecksumTracksContent(t *testing.T) {
	svc := NewService(testLogger())
	ctx := context.Background()

	a := openStore(t)
	b := openStore(t)
	seed(t, a, "rent")
	seed(t, b, "rent")

	metaA, err := svc.Metadata(ctx, a)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	metaB, err := svc.Metadata(ctx, b)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if metaA.Checksum != metaB.Checksum {
		t.Errorf("identical contents should checksum equal: %s vs %s", metaA.Checksum, metaB.Checksum)
	}

	seed(t, b, "food")
	metaB, err = svc.Metadata(ctx, b)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if metaA.Checksum == metaB.Checksum {
		t.Error("diverged contents should checksum differently")
	}
}

func TestCompareMetadataStrategies(t *testing.T) {
	svc := NewService(testLogger())
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		local  models.SyncMetadata
		remote models.SyncMetadata
		want   models.SyncStrategy
	}{
		{
			name:   "empty local fills from remote",
			local:  models.SyncMetadata{RecordCount: 0, LastSync: now},
			remote: models.SyncMetadata{RecordCount: 12, LastSync: now},
			want:   models.SyncRemoteToLocal,
		},
		{
			name:   "empty remote fills from local",
			local:  models.SyncMetadata{RecordCount: 5, LastSync: now},
			remote: models.SyncMetadata{RecordCount: 0, LastSync: now},
			want:   models.SyncLocalToRemote,
		},
		{
			name:   "both empty defaults to pushing local",
			local:  models.SyncMetadata{},
			remote: models.SyncMetadata{},
			want:   models.SyncLocalToRemote,
		},
		{
			name:   "near-simultaneous defaults to pushing local",
			local:  models.SyncMetadata{RecordCount: 5, LastSync: now, Checksum: "aaaa"},
			remote: models.SyncMetadata{RecordCount: 5, LastSync: now.Add(30 * time.Second), Checksum: "bbbb"},
			want:   models.SyncLocalToRemote,
		},
		{
			name:   "diverged and remote newer",
			local:  models.SyncMetadata{RecordCount: 5, LastSync: now, Checksum: "aaaa"},
			remote: models.SyncMetadata{RecordCount: 5, LastSync: now.Add(time.Hour), Checksum: "bbbb"},
			want:   models.SyncRemoteToLocal,
		},
		{
			name:   "diverged and local newer",
			local:  models.SyncMetadata{RecordCount: 5, LastSync: now.Add(time.Hour), Checksum: "aaaa"},
			remote: models.SyncMetadata{RecordCount: 5, LastSync: now, Checksum: "bbbb"},
			want:   models.SyncLocalToRemote,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.CompareMetadata(&tc.local, &tc.remote); got != tc.want {
				t.Errorf("CompareMetadata = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSyncWithDirectionCopiesEverything(t *testing.T) {
	svc := NewService(testLogger())
	ctx := context.Background()

	source := openStore(t)
	target := openStore(t)
	seed(t, source, "rent", "food", "transport")

	result := svc.SyncWithDirection(ctx, source, target)
	if !result.Success {
		t.Fatalf("sync failed: %s", result.Error)
	}
	if result.RecordsTransferred != 3 {
		t.Errorf("RecordsTransferred = %d, want 3", result.RecordsTransferred)
	}
	if result.ID == "" {
		t.Error("expected a result id")
	}

	got, err := target.Expenses().FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("target has %d expenses, want 3", len(got))
	}

	// The source must be untouched.
	still, err := source.Expenses().FindAll(ctx)
	if err != nil || len(still) != 3 {
		t.Errorf("source was modified by the sync: %d expenses (%v)", len(still), err)
	}
}

func TestSyncAutoFillsEmptySide(t *testing.T) {
	svc := NewService(testLogger())
	ctx := context.Background()

	local := openStore(t)
	remote := openStore(t)
	seed(t, remote, "rent", "food")

	result := svc.Sync(ctx, local, remote, "")
	if !result.Success {
		t.Fatalf("sync failed: %s", result.Error)
	}
	if result.RecordsTransferred != 2 {
		t.Errorf("RecordsTransferred = %d, want 2", result.RecordsTransferred)
	}

	got, err := local.Expenses().FindAll(ctx)
	if err != nil || len(got) != 2 {
		t.Errorf("local should have been filled from remote: %d expenses (%v)", len(got), err)
	}
}

func TestSyncConflictReportsMismatches(t *testing.T) {
	svc := NewService(testLogger())
	ctx := context.Background()

	local := openStore(t)
	remote := openStore(t)
	seed(t, local, "rent", "food")
	seed(t, remote, "rent")

	result := svc.Sync(ctx, local, remote, models.SyncStrategyConflict)
	if result.Success {
		t.Error("mismatched tables should not report success")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected one conflicting table, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Table != models.TableExpenses {
		t.Errorf("conflict table = %s, want expenses", result.Conflicts[0].Table)
	}
	if result.RecordsTransferred != 0 {
		t.Error("conflict strategy must not transfer records")
	}

	// Nothing moved on either side.
	still, err := remote.Expenses().FindAll(ctx)
	if err != nil || len(still) != 1 {
		t.Errorf("remote was modified: %d expenses (%v)", len(still), err)
	}
}

func TestSyncUnknownStrategy(t *testing.T) {
	svc := NewService(testLogger())
	local := openStore(t)
	remote := openStore(t)

	result := svc.Sync(context.Background(), local, remote, models.SyncStrategy("sideways"))
	if result.Success || result.Error == "" {
		t.Errorf("expected a failed result, got %+v", result)
	}
}
