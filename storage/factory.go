package storage

import (
	"fmt"
	"log/slog"

	"github.com/vexlabs/device-agent/interfaces"
)

// Compile-time interface checks.
var (
	_ interfaces.CredentialStore = (*FileStore)(nil)
	_ interfaces.CredentialStore = (*SQLiteStore)(nil)
	_ interfaces.CredentialStore = (*MemStore)(nil)
)

// StoreFactory creates credential stores from location URIs.
type StoreFactory struct {
	log *slog.Logger
}

// NewStoreFactory creates a new factory instance.
func NewStoreFactory(log *slog.Logger) *StoreFactory {
	return &StoreFactory{log: log}
}

// StoreFor creates a credential store from a location URI.
//
// Supported schemes:
//   - file:// - one CBOR record file per category under a directory
//   - sqlite:// - a SQLite database file
//   - mem:// - volatile in-memory store
//
// Returns an error if the backend cannot be initialized.
func (f *StoreFactory) StoreFor(loc interfaces.StoreLocation) (interfaces.CredentialStore, error) {
	switch loc.Scheme {
	case "file":
		return NewFileStore(loc.Path, f.log)
	case "sqlite":
		return NewSQLiteStore(loc.Path, f.log)
	case "mem":
		f.log.Warn("Using volatile in-memory credential store; credentials will not survive restart")
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidStoreLocation, loc.Scheme)
	}
}
