// Package settings persists the user's backend preference and the saved
// remote connection config in a small bbolt file, separate from the data
// store so switching or destroying a backend never loses them.
package settings

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/utils"
)

var (
	bucketSettings    = []byte("settings")
	bucketCloudConfig = []byte("cloud_config")

	keyPreferredBackend = []byte("preferred_db_type")
	keyActiveBackend    = []byte("active_db_type")
	keyCurrentConfig    = []byte("current")
)

// Store holds app settings. The remote auth token is encrypted at rest.
type Store struct {
	db            *bolt.DB
	log           *logrus.Logger
	encryptionKey []byte
}

func Open(path string, encryptionKey string, log *logrus.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSettings, bucketCloudConfig} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log, encryptionKey: []byte(encryptionKey)}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// PreferredBackend returns the saved backend preference, or "" when the user
// has never chosen one.
func (s *Store) PreferredBackend() (models.BackendType, error) {
	raw, err := s.get(bucketSettings, keyPreferredBackend)
	return models.BackendType(raw), err
}

func (s *Store) SetPreferredBackend(t models.BackendType) error {
	return s.put(bucketSettings, keyPreferredBackend, []byte(t))
}

// ActiveBackend returns the backend recorded as last activated.
func (s *Store) ActiveBackend() (models.BackendType, error) {
	raw, err := s.get(bucketSettings, keyActiveBackend)
	return models.BackendType(raw), err
}

func (s *Store) SetActiveBackend(t models.BackendType) error {
	return s.put(bucketSettings, keyActiveBackend, []byte(t))
}

// SaveCloudConfig persists the remote connection config, encrypting the auth
// token before it touches disk.
func (s *Store) SaveCloudConfig(cfg *models.CloudDBConfig) error {
	stored := *cfg
	stored.UpdatedAt = time.Now()
	if stored.AuthToken != "" {
		encrypted, err := utils.Encrypt(stored.AuthToken, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt auth token: %w", err)
		}
		stored.AuthToken = encrypted
	}
	raw, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to encode cloud config: %w", err)
	}
	return s.put(bucketCloudConfig, keyCurrentConfig, raw)
}

// CloudConfig returns the saved remote connection config with the auth token
// decrypted, or nil when none is saved.
func (s *Store) CloudConfig() (*models.CloudDBConfig, error) {
	raw, err := s.get(bucketCloudConfig, keyCurrentConfig)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	cfg := &models.CloudDBConfig{}
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode cloud config: %w", err)
	}
	if cfg.AuthToken != "" {
		decrypted, err := utils.Decrypt(cfg.AuthToken, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt auth token: %w", err)
		}
		cfg.AuthToken = decrypted
	}
	return cfg, nil
}

// DeleteCloudConfig forgets the saved remote connection.
func (s *Store) DeleteCloudConfig() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCloudConfig).Delete(keyCurrentConfig)
	})
}

func (s *Store) get(bucket, key []byte) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(bucket).Get(key); raw != nil {
			value = string(raw)
		}
		return nil
	})
	return value, err
}

func (s *Store) put(bucket, key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, value)
	})
}
