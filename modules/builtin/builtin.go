// Package builtin provides the capability modules compiled into every
// agent build: a board information model and a health probe model.
// Device-specific driver modules are appended to this list in the
// build configuration.
package builtin

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/vexlabs/device-agent/registry"
)

// Modules is the default ordered module list passed to the registry
// initializer.
func Modules() []registry.Module {
	return []registry.Module{
		{Name: "board_info", Register: registerBoardInfo},
		{Name: "health_probe", Register: registerHealthProbe},
	}
}

// BoardInfo describes the host the agent runs on.
type BoardInfo struct {
	Hostname string
	OS       string
	Arch     string
	CPUs     int
}

func (b *BoardInfo) Name() string { return "board_info" }

func registerBoardInfo(reg *registry.ComponentRegistry) error {
	return reg.RegisterModel("board_info", func(log *slog.Logger) (registry.Component, error) {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, err
		}
		return &BoardInfo{
			Hostname: hostname,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			CPUs:     runtime.NumCPU(),
		}, nil
	})
}

// HealthProbe reports basic process liveness counters.
type HealthProbe struct {
	log *slog.Logger
}

func (h *HealthProbe) Name() string { return "health_probe" }

// Goroutines returns the current goroutine count.
func (h *HealthProbe) Goroutines() int {
	return runtime.NumGoroutine()
}

func registerHealthProbe(reg *registry.ComponentRegistry) error {
	return reg.RegisterModel("health_probe", func(log *slog.Logger) (registry.Component, error) {
		return &HealthProbe{log: log}, nil
	})
}
