//go:build linux

package network

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/vexlabs/device-agent/interfaces"
	"github.com/vishvananda/netlink"
)

// Compile-time interface check.
var _ interfaces.NetworkManager = (*Manager)(nil)

// Manager reads link state over netlink.
type Manager struct {
	log *slog.Logger
}

// NewManager creates the connectivity manager. The netlink socket is
// probed up front so a broken environment fails the boot instead of
// the first health sample.
func NewManager(log *slog.Logger) (*Manager, error) {
	if _, err := netlink.LinkList(); err != nil {
		return nil, fmt.Errorf("failed to query netlink: %w", err)
	}
	return &Manager{log: log}, nil
}

// ActiveLinks returns the names of non-loopback links that are
// operationally up.
func (m *Manager) ActiveLinks() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	var active []string
	for _, link := range links {
		attrs := link.Attrs()
		if attrs.Flags&net.FlagLoopback != 0 {
			continue
		}
		if attrs.OperState == netlink.OperUp {
			active = append(active, attrs.Name)
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
