package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vexlabs/device-agent/interfaces"
)

// FileStore implements a credential store on the local filesystem.
// Each credential category is a single CBOR file under the base
// directory, written atomically via rename.
type FileStore struct {
	baseDir string
	log     *slog.Logger
}

// NewFileStore creates a file-backed credential store rooted at
// baseDir, creating the directory if needed.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{baseDir: baseDir, log: log}, nil
}

func (s *FileStore) path(category string) string {
	return filepath.Join(s.baseDir, category+".cbor")
}

func (s *FileStore) write(category string, data []byte) error {
	target := s.path(category)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	s.log.Debug("Wrote credential record",
		slog.String("category", category),
		slog.String("path", target))
	return nil
}

func (s *FileStore) read(category string) ([]byte, error) {
	data, err := os.ReadFile(s.path(category))
	if os.IsNotExist(err) {
		return nil, interfaces.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return data, nil
}

// HasDefaultNetwork reports whether a complete, decodable network
// record exists. A corrupt record counts as absent so the resolver can
// re-seed it from fallback values.
func (s *FileStore) HasDefaultNetwork() bool {
	_, err := s.DefaultNetwork()
	return err == nil
}

// StoreDefaultNetwork persists the default network pair.
func (s *FileStore) StoreDefaultNetwork(ssid, password string) error {
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
func (s *FileStore) DefaultNetwork() (interfaces.NetworkCredentials, error) {
	data, err := s.read(categoryNetwork)
	if err != nil {
		return interfaces.NetworkCredentials{}, err
	}
	return decodeNetwork(data)
}

// HasDeviceCredentials reports whether a complete, decodable device
// identity record exists.
func (s *FileStore) HasDeviceCredentials() bool {
	_, err := s.DeviceCredentials()
	return err == nil
}

// StoreDeviceCredentials persists the device identity record.
func (s *FileStore) StoreDeviceCredentials(creds interfaces.DeviceCredentials) error {
	data, err := encodeDevice(creds)
	if err != nil {
		return fmt.Errorf("failed to encode device record: %w", err)
	}
	return s.write(categoryDevice, data)
}

// DeviceCredentials loads the stored device identity.
func (s *FileStore) DeviceCredentials() (interfaces.DeviceCredentials, error) {
	data, err := s.read(categoryDevice)
	if err != nil {
		return interfaces.DeviceCredentials{}, err
	}
	return decodeDevice(data)
}

// Name returns an identifier for logging.
func (s *FileStore) Name() string {
	return "file"
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
