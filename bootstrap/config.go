package bootstrap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FallbackCredentials holds the optional values embedded at build or
// deploy time. Every field is optional; a category's fallback is only
// usable when all of its fields are present. The struct is injected
// into the resolver rather than read from globals so resolution stays
// testable without rebuilding.
type FallbackCredentials struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`

	DeviceID     string `yaml:"device_id"`
	DeviceSecret string `yaml:"device_secret"`
	AppAddress   string `yaml:"app_address"`
}

// HasNetwork reports whether the network fallback pair is complete.
func (f FallbackCredentials) HasNetwork() bool {
	return f.SSID != "" && f.Password != ""
}

// HasDevice reports whether the device identity fallback is complete.
func (f FallbackCredentials) HasDevice() bool {
	return f.DeviceID != "" && f.DeviceSecret != "" && f.AppAddress != ""
}

// Merge overlays non-empty fields of other on top of f. Used to let
// command-line flags override values from the fallback file.
func (f FallbackCredentials) Merge(other FallbackCredentials) FallbackCredentials {
	if other.SSID != "" {
		f.SSID = other.SSID
	}
	if other.Password != "" {
		f.Password = other.Password
	}
	if other.DeviceID != "" {
		f.DeviceID = other.DeviceID
	}
	if other.DeviceSecret != "" {
		f.DeviceSecret = other.DeviceSecret
	}
	if other.AppAddress != "" {
		f.AppAddress = other.AppAddress
	}
	return f
}

// LoadFallbackFile reads fallback credentials from a YAML file. A
// missing path returns empty fallbacks without error so deployments
// without baked-in secrets boot straight into provisioning.
func LoadFallbackFile(path string) (FallbackCredentials, error) {
	if path == "" {
		return FallbackCredentials{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return FallbackCredentials{}, nil
	}
	if err != nil {
		return FallbackCredentials{}, fmt.Errorf("failed to read fallback file: %w", err)
	}

	var creds FallbackCredentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return FallbackCredentials{}, fmt.Errorf("failed to parse fallback file: %w", err)
	}
	return creds, nil
}
