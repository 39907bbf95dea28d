package backend

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/config"
	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
	"github.com/mvidal/gastos/internal/settings"
)

// Manager owns the active backend. Resolution order is the saved preference,
// then the configured default, then local; a remote backend that cannot be
// built falls back to local with a warning, while a local failure propagates
// because there is nothing left to fall back to.
type Manager struct {
	cfg      *config.Config
	settings *settings.Store
	log      *logrus.Logger

	mu        sync.RWMutex
	current   repository.Repository
	observers []func(models.BackendType)
}

func NewManager(cfg *config.Config, store *settings.Store, log *logrus.Logger) *Manager {
	return &Manager{cfg: cfg, settings: store, log: log}
}

// Current returns the active backend, opening it on first use.
func (m *Manager) Current() (repository.Repository, error) {
	m.mu.RLock()
	if m.current != nil {
		defer m.mu.RUnlock()
		return m.current, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return m.current, nil
	}
	repo, err := m.open(m.resolveType())
	if err != nil {
		return nil, err
	}
	m.current = repo
	return repo, nil
}

// ActiveType reports the type of the active backend without opening one.
func (m *Manager) ActiveType() models.BackendType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Type()
}

// SetPreferred persists the preference and switches to it.
func (m *Manager) SetPreferred(typ models.BackendType) (repository.Repository, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown backend type %q", typ)
	}
	if err := m.settings.SetPreferredBackend(typ); err != nil {
		return nil, fmt.Errorf("failed to save backend preference: %w", err)
	}
	return m.Switch(typ)
}

// Switch closes the active backend and opens one of the given type. Observers
// are notified after the switch, outside the lock.
func (m *Manager) Switch(typ models.BackendType) (repository.Repository, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown backend type %q", typ)
	}

	m.mu.Lock()
	if m.current != nil && m.current.Type() == typ {
		repo := m.current
		m.mu.Unlock()
		return repo, nil
	}

	// The local store holds a file lock, so the previous backend must be
	// closed before the next one opens.
	var previous models.BackendType
	if m.current != nil {
		previous = m.current.Type()
		if err := m.current.Close(); err != nil {
			m.log.Warnf("Failed to close previous backend: %v", err)
		}
		m.current = nil
	}

	repo, err := m.open(typ)
	if err != nil && previous.Valid() {
		m.log.Warnf("Failed to open %s backend, restoring %s: %v", typ, previous, err)
		repo, err = m.open(previous)
	}
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.current = repo
	active := repo.Type()
	observers := append([]func(models.BackendType){}, m.observers...)
	m.mu.Unlock()

	m.log.Infof("Switched to %s backend", active)
	for _, notify := range observers {
		notify(active)
	}
	return repo, nil
}

// Subscribe registers a callback invoked after every backend switch.
func (m *Manager) Subscribe(fn func(models.BackendType)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// PairForSync returns open repositories of both types for a sync run. The
// active backend is lent out as its own side; only the missing side is built
// fresh, and release closes just that one.
func (m *Manager) PairForSync() (local, remote repository.Repository, release func(), err error) {
	current, err := m.Current()
	if err != nil {
		return nil, nil, nil, err
	}

	var built repository.Repository
	switch current.Type() {
	case models.BackendLocal:
		local = current
		cloud := m.resolveCloud()
		if cloud == nil {
			return nil, nil, nil, fmt.Errorf("remote backend credentials are not configured")
		}
		remote, err = Build(models.BackendRemote, Options{DataDir: m.cfg.DataDir, Cloud: cloud, Log: m.log})
		built = remote
	case models.BackendRemote:
		remote = current
		local, err = Build(models.BackendLocal, Options{DataDir: m.cfg.DataDir, Log: m.log})
		built = local
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open sync counterpart: %w", err)
	}

	release = func() {
		if err := built.Close(); err != nil {
			m.log.Warnf("Failed to close sync counterpart: %v", err)
		}
	}
	return local, remote, release, nil
}

// Close closes the active backend, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	err := m.current.Close()
	m.current = nil
	return err
}

// resolveType picks the backend type to open: saved preference, then the
// configured default, then local.
func (m *Manager) resolveType() models.BackendType {
	preferred, err := m.settings.PreferredBackend()
	if err != nil {
		m.log.Warnf("Failed to read backend preference: %v", err)
	}
	if preferred.Valid() {
		return preferred
	}
	if typ := models.BackendType(m.cfg.DefaultBackend); typ.Valid() {
		return typ
	}
	return models.BackendLocal
}

// resolveCloud finds remote credentials: the saved config first, then the
// environment pair. Returns nil when neither is usable.
func (m *Manager) resolveCloud() *models.CloudDBConfig {
	saved, err := m.settings.CloudConfig()
	if err != nil {
		m.log.Warnf("Failed to read saved cloud config: %v", err)
	}
	if saved.Valid() {
		return saved
	}
	env := &models.CloudDBConfig{URL: m.cfg.CloudDBURL, AuthToken: m.cfg.CloudDBToken}
	if env.Valid() {
		return env
	}
	return nil
}

// open builds a backend of the given type, falling back to local when the
// remote one is unavailable. The activated type is recorded in settings.
func (m *Manager) open(typ models.BackendType) (repository.Repository, error) {
	opts := Options{DataDir: m.cfg.DataDir, Log: m.log}

	if typ == models.BackendRemote {
		opts.Cloud = m.resolveCloud()
		if opts.Cloud == nil {
			m.log.Warn("Remote backend requested but no credentials available, using local")
			typ = models.BackendLocal
		}
	}

	repo, err := Build(typ, opts)
	if err != nil && typ == models.BackendRemote {
		m.log.Warnf("Failed to open remote backend, falling back to local: %v", err)
		typ = models.BackendLocal
		repo, err = Build(typ, opts)
	}
	if err != nil {
		return nil, err
	}

	if err := m.settings.SetActiveBackend(typ); err != nil {
		m.log.Warnf("Failed to record active backend: %v", err)
	}
	return repo, nil
}
