package interfaces

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrInvalidStoreLocation is returned when a credential store URI is
	// malformed or uses an unsupported scheme. URIs must follow the
	// format [scheme]://[path].
	ErrInvalidStoreLocation = errors.New("invalid store location URI")

	// ErrStoreUnavailable is returned when the storage medium cannot be
	// read or written.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// StoreLocation represents a parsed credential store URI.
type StoreLocation struct {
	Raw    string // Original URI
	Scheme string // Storage backend selector
	Path   string // Backend-specific path
}

// NewStoreLocation creates a store location from a URI string with
// validation.
func NewStoreLocation(uri string) (StoreLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return StoreLocation{}, fmt.Errorf("%w: %v", ErrInvalidStoreLocation, err)
	}

	switch parsed.Scheme {
	case "file", "sqlite", "mem":
		// Valid scheme
	default:
		return StoreLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidStoreLocation, parsed.Scheme)
	}

	// file:///var/lib/x parses with an empty host and the path in Path;
	// file://relative/x puts the first segment in Host. Join them so
	// both spellings address the same directory.
	path := parsed.Path
	if parsed.Host != "" {
		path = parsed.Host + path
	}

	return StoreLocation{Raw: uri, Scheme: parsed.Scheme, Path: path}, nil
}

// String returns the original URI string.
func (loc StoreLocation) String() string {
	return loc.Raw
}

// CredentialStore persists network and device-identity credentials.
// The bootstrap resolver is its only writer during boot; afterwards the
// server reads it and the provisioning pairing flow may write through
// it.
type CredentialStore interface {
	// HasDefaultNetwork reports whether a complete network credential
	// record is stored.
	HasDefaultNetwork() bool

	// StoreDefaultNetwork persists the default network pair.
	StoreDefaultNetwork(ssid, password string) error

	// DefaultNetwork loads the stored network credentials. Returns
	// ErrCredentialsNotFound if absent.
	DefaultNetwork() (NetworkCredentials, error)

	// HasDeviceCredentials reports whether a complete device credential
	// record is stored.
	HasDeviceCredentials() bool

	// StoreDeviceCredentials persists the device identity record.
	StoreDeviceCredentials(creds DeviceCredentials) error

	// DeviceCredentials loads the stored device identity. Returns
	// ErrCredentialsNotFound if absent.
	DeviceCredentials() (DeviceCredentials, error)

	// Name returns an identifier for logging.
	Name() string

	// Close releases the underlying storage medium.
	Close() error
}
