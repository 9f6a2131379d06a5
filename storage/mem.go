package storage

import (
	"sync"

	"github.com/vexlabs/device-agent/interfaces"
)

// MemStore is a volatile in-memory credential store, used in tests and
// for development boots where persistence is not wanted.
type MemStore struct {
	mu      sync.RWMutex
	network *interfaces.NetworkCredentials
	device  *interfaces.DeviceCredentials
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// HasDefaultNetwork reports whether a network record is held.
func (s *MemStore) HasDefaultNetwork() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network != nil
}

// StoreDefaultNetwork stores the default network pair.
func (s *MemStore) StoreDefaultNetwork(ssid, password string) error {
	creds, err := interfaces.NewNetworkCredentials(ssid, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = &creds
	return nil
}

// DefaultNetwork returns the held network credentials.
func (s *MemStore) DefaultNetwork() (interfaces.NetworkCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.network == nil {
		return interfaces.NetworkCredentials{}, interfaces.ErrCredentialsNotFound
	}
	return *s.network, nil
}

// HasDeviceCredentials reports whether a device identity is held.
func (s *MemStore) HasDeviceCredentials() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.device != nil
}

// StoreDeviceCredentials stores the device identity record.
func (s *MemStore) StoreDeviceCredentials(creds interfaces.DeviceCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = &creds
	return nil
}

// DeviceCredentials returns the held device identity.
func (s *MemStore) DeviceCredentials() (interfaces.DeviceCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.device == nil {
		return interfaces.DeviceCredentials{}, interfaces.ErrCredentialsNotFound
	}
	return *s.device, nil
}

// Name returns an identifier for logging.
func (s *MemStore) Name() string {
	return "mem"
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error {
	return nil
}
