package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/vexlabs/device-agent/interfaces"
)

// Resolver decides, per credential category, whether to trust persisted
// state or seed it from fallback values. It is the only writer of the
// credential store during boot.
type Resolver struct {
	store    interfaces.CredentialStore
	fallback FallbackCredentials
	log      *slog.Logger
}

// NewResolver creates a resolver over the given store and fallback set.
func NewResolver(store interfaces.CredentialStore, fallback FallbackCredentials, log *slog.Logger) *Resolver {
	return &Resolver{store: store, fallback: fallback, log: log}
}

// Resolve reconciles both credential categories. It performs at most
// one store write per category, only when the category is absent and a
// complete fallback exists. A malformed fallback is a fatal error: the
// device must not run with a corrupt identity. Absent credentials with
// no fallback are not an error; the provisioning flow takes over.
func (r *Resolver) Resolve() error {
	if err := r.resolveNetwork(); err != nil {
		return err
	}
	return r.resolveDevice()
}

func (r *Resolver) resolveNetwork() error {
	if r.store.HasDefaultNetwork() {
		return nil
	}
	r.log.Warn("No default network settings found in storage")

	if !r.fallback.HasNetwork() {
		if r.fallback.SSID != "" || r.fallback.Password != "" {
			r.log.Warn("Ignoring partial build-time network settings; both ssid and password are required")
		}
		return nil
	}

	r.log.Info("Storing build-time network settings to storage as default",
		slog.String("ssid", r.fallback.SSID))
	if err := r.store.StoreDefaultNetwork(r.fallback.SSID, r.fallback.Password); err != nil {
		return fmt.Errorf("failed to store network settings: %w", err)
	}
	return nil
}

func (r *Resolver) resolveDevice() error {
	if r.store.HasDeviceCredentials() {
		return nil
	}
	r.log.Warn("No device credentials found in storage")

	if !r.fallback.HasDevice() {
		if r.fallback.DeviceID != "" || r.fallback.DeviceSecret != "" || r.fallback.AppAddress != "" {
			r.log.Warn("Ignoring partial build-time device credentials; id, secret and app address are all required")
		}
		return nil
	}

	creds, err := interfaces.NewDeviceCredentials(
		r.fallback.DeviceID, r.fallback.DeviceSecret, r.fallback.AppAddress)
	if err != nil {
		return fmt.Errorf("failed to construct device credentials from build-time values: %w", err)
	}

	r.log.Info("Storing build-time device credentials to storage",
		slog.String("device_id", creds.ID),
		slog.String("app_address", creds.AppAddress.String()))
	if err := r.store.StoreDeviceCredentials(creds); err != nil {
		return fmt.Errorf("failed to store device credentials: %w", err)
	}
	return nil
}
