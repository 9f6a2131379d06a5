//go:build !linux

package network

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/vexlabs/device-agent/interfaces"
)

// Compile-time interface check.
var _ interfaces.NetworkManager = (*Manager)(nil)

// Manager reads link state via the portable interface list. Used on
// development hosts; production devices run the netlink build.
type Manager struct {
	log *slog.Logger
}

// NewManager creates the connectivity manager.
func NewManager(log *slog.Logger) (*Manager, error) {
	if _, err := net.Interfaces(); err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	return &Manager{log: log}, nil
}

// ActiveLinks returns the names of non-loopback interfaces that are up.
func (m *Manager) ActiveLinks() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var active []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp != 0 {
			active = append(active, iface.Name)
		}
	}
	return active, nil
}

// Available reports whether at least one usable link is up.
func (m *Manager) Available(ctx context.Context) bool {
	active, err := m.ActiveLinks()
	if err != nil {
		m.log.Warn("Link state query failed", "err", err)
		return false
	}
	return len(active) > 0
}
