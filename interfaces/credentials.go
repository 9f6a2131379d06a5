package interfaces

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrCredentialsNotFound is returned when a credential store holds no
	// record for the requested category.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrPartialCredentials is returned when a credential constructor is
	// given an incomplete value pair. Partial pairs are never stored or
	// used.
	ErrPartialCredentials = errors.New("partial credentials")

	// ErrInvalidAppAddress is returned when a device credential's app
	// address does not parse as an absolute URL.
	ErrInvalidAppAddress = errors.New("invalid app address")
)

// NetworkCredentials holds the network the device joins by default.
type NetworkCredentials struct {
	SSID     string
	Password string
}

// NewNetworkCredentials creates a network credential pair. Both fields
// must be non-empty.
func NewNetworkCredentials(ssid, password string) (NetworkCredentials, error) {
	if ssid == "" || password == "" {
		return NetworkCredentials{}, fmt.Errorf("%w: ssid and password must both be set", ErrPartialCredentials)
	}
	return NetworkCredentials{SSID: ssid, Password: password}, nil
}

// DeviceCredentials identifies the device to its control application.
type DeviceCredentials struct {
	ID         string
	Secret     string
	AppAddress *url.URL
}

// NewDeviceCredentials creates a device credential record. All three
// fields must be present and the app address must parse as an absolute
// URL with a host.
func NewDeviceCredentials(id, secret, appAddress string) (DeviceCredentials, error) {
	if id == "" || secret == "" || appAddress == "" {
		return DeviceCredentials{}, fmt.Errorf("%w: id, secret and app address must all be set", ErrPartialCredentials)
	}

	parsed, err := url.Parse(appAddress)
	if err != nil {
		return DeviceCredentials{}, fmt.Errorf("%w: %v", ErrInvalidAppAddress, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return DeviceCredentials{}, fmt.Errorf("%w: address must be absolute with a host", ErrInvalidAppAddress)
	}

	return DeviceCredentials{ID: id, Secret: secret, AppAddress: parsed}, nil
}
