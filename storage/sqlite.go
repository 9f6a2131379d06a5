package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vexlabs/device-agent/interfaces"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements a credential store backed by a single SQLite
// table keyed by credential category. Records reuse the CBOR encoding
// of the file store.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path and runs the
// schema migration.
func NewSQLiteStore(path string, log *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		category   TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) write(category string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (category, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(category) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		category, data)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	s.log.Debug("Wrote credential record", slog.String("category", category))
	return nil
}

func (s *SQLiteStore) read(category string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT payload FROM credentials WHERE category = ?`, category).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return data, nil
}

// HasDefaultNetwork reports whether a complete network record exists.
func (s *SQLiteStore) HasDefaultNetwork() bool {
	_, err := s.DefaultNetwork()
	return err == nil
}

// StoreDefaultNetwork persists the default network pair.
func (s *SQLiteStore) StoreDefaultNetwork(ssid, password string) error {
	creds, err := interfaces.NewNetworkCredentials(ssid, password)
	if err != nil {
		return err
	}
	data, err := encodeNetwork(creds)
	if err != nil {
		return fmt.Errorf("failed to encode network record: %w", err)
	}
	return s.write(categoryNetwork, data)
}

// DefaultNetwork loads the stored network credentials.
func (s *SQLiteStore) DefaultNetwork() (interfaces.NetworkCredentials, error) {
	data, err := s.read(categoryNetwork)
	if err != nil {
		return interfaces.NetworkCredentials{}, err
	}
	return decodeNetwork(data)
}

// HasDeviceCredentials reports whether a complete device identity
// record exists.
func (s *SQLiteStore) HasDeviceCredentials() bool {
	_, err := s.DeviceCredentials()
	return err == nil
}

// StoreDeviceCredentials persists the device identity record.
func (s *SQLiteStore) StoreDeviceCredentials(creds interfaces.DeviceCredentials) error {
	data, err := encodeDevice(creds)
	if err != nil {
		return fmt.Errorf("failed to encode device record: %w", err)
	}
	return s.write(categoryDevice, data)
}

// DeviceCredentials loads the stored device identity.
func (s *SQLiteStore) DeviceCredentials() (interfaces.DeviceCredentials, error) {
	data, err := s.read(categoryDevice)
	if err != nil {
		return interfaces.DeviceCredentials{}, err
	}
	return decodeDevice(data)
}

// Name returns an identifier for logging.
func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
