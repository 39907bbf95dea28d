package backend

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/config"
	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/settings"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testManager(t *testing.T, cfg *config.Config) (*Manager, *settings.Store) {
	t.Helper()
	if cfg.DataDir == "" {
		cfg.DataDir = t.TempDir()
	}
	if cfg.EncryptionKey == "" {
		cfg.EncryptionKey = "0123456789abcdef0123456789abcdef"
	}
	store, err := settings.Open(filepath.Join(cfg.DataDir, "settings.db"), cfg.EncryptionKey, testLogger())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := NewManager(cfg, store, testLogger())
	t.Cleanup(func() { m.Close() })
	return m, store
}

func TestCurrentOpensLocalByDefault(t *testing.T) {
	m, _ := testManager(t, &config.Config{DefaultBackend: "local"})

	repo, err := m.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if repo.Type() != models.BackendLocal {
		t.Errorf("Type = %s, want local", repo.Type())
	}

	// Repeated calls hand back the same instance.
	again, err := m.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if again != repo {
		t.Error("Current must be idempotent")
	}
}

// A remote default without credentials must silently come up on the local
// backend instead of failing.
func TestRemoteWithoutCredentialsFallsBackToLocal(t *testing.T) {
	m, store := testManager(t, &config.Config{DefaultBackend: "remote"})

	repo, err := m.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if repo.Type() != models.BackendLocal {
		t.Errorf("Type = %s, want local fallback", repo.Type())
	}

	active, err := store.ActiveBackend()
	if err != nil || active != models.BackendLocal {
		t.Errorf("recorded active backend = %q (%v), want local", active, err)
	}
}

func TestSwitchToSameTypeIsNoOp(t *testing.T) {
	m, _ := testManager(t, &config.Config{DefaultBackend: "local"})

	repo, err := m.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	same, err := m.Switch(models.BackendLocal)
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if same != repo {
		t.Error("switching to the active type must keep the instance")
	}
}

func TestSwitchRejectsUnknownType(t *testing.T) {
	m, _ := testManager(t, &config.Config{DefaultBackend: "local"})
	if _, err := m.Switch(models.BackendType("cloud")); err == nil {
		t.Error("expected an error for an unknown backend type")
	}
}

func TestSetPreferredPersistsChoice(t *testing.T) {
	m, store := testManager(t, &config.Config{DefaultBackend: "local"})

	// Preferring remote without credentials still lands on local, but the
	// preference itself is recorded for when credentials appear.
	repo, err := m.SetPreferred(models.BackendRemote)
	if err != nil {
		t.Fatalf("SetPreferred: %v", err)
	}
	if repo.Type() != models.BackendLocal {
		t.Errorf("Type = %s, want local fallback", repo.Type())
	}

	preferred, err := store.PreferredBackend()
	if err != nil || preferred != models.BackendRemote {
		t.Errorf("PreferredBackend = %q (%v), want remote", preferred, err)
	}
}

func TestObserverNotifiedOnSwitch(t *testing.T) {
	m, _ := testManager(t, &config.Config{DefaultBackend: "local"})

	var seen []models.BackendType
	m.Subscribe(func(t models.BackendType) { seen = append(seen, t) })

	if _, err := m.Current(); err != nil {
		t.Fatalf("Current: %v", err)
	}
	// Remote without credentials falls back to local, which is a real
	// switch attempt and must notify with the type that actually opened.
	if _, err := m.Switch(models.BackendRemote); err != nil {
		t.Fatalf("Switch: %v", err)
	}

	if len(seen) != 1 || seen[0] != models.BackendLocal {
		t.Errorf("observer saw %v, want one local notification", seen)
	}
}

func TestBuildRejectsRemoteWithoutConfig(t *testing.T) {
	_, err := Build(models.BackendRemote, Options{DataDir: t.TempDir(), Log: testLogger()})
	if err == nil {
		t.Error("expected an error without cloud credentials")
	}
}

func TestBuildRejectsUnknownType(t *testing.T) {
	_, err := Build(models.BackendType("cloud"), Options{DataDir: t.TempDir(), Log: testLogger()})
	if err == nil {
		t.Error("expected an error for an unknown type")
	}
}
