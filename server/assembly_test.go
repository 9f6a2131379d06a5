package server

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlabs/device-agent/bootstrap"
	"github.com/vexlabs/device-agent/cryptoutils"
	"github.com/vexlabs/device-agent/registry"
	"github.com/vexlabs/device-agent/securechannel"
	"github.com/vexlabs/device-agent/storage"
)

// TestFirstBootAssembly walks the whole boot path: empty storage with
// complete fallbacks is seeded by the resolver, the identity and
// registry come up, and the builder yields a runnable server.
func TestFirstBootAssembly(t *testing.T) {
	log := testLogger()
	store := storage.NewMemStore()

	resolver := bootstrap.NewResolver(store, bootstrap.FallbackCredentials{
		SSID:         "shop-floor",
		Password:     "hunter2",
		DeviceID:     "dev-1",
		DeviceSecret: "s3cret",
		AppAddress:   "https://app.example.com",
	}, log)
	require.NoError(t, resolver.Resolve())
	require.True(t, store.HasDefaultNetwork())
	require.True(t, store.HasDeviceCredentials())

	identity, err := cryptoutils.GenerateTransportIdentity("device-agent.local")
	require.NoError(t, err)
	channel, err := securechannel.NewBackend(identity, log)
	require.NoError(t, err)

	reg := registry.NewComponentRegistry()
	modules := []registry.Module{
		{Name: "motor", Register: func(r *registry.ComponentRegistry) error {
			return r.RegisterModel("motor", func(log *slog.Logger) (registry.Component, error) {
				return nil, nil
			})
		}},
		{Name: "encoder", Register: func(r *registry.ComponentRegistry) error {
			return r.RegisterModel("encoder", func(log *slog.Logger) (registry.Component, error) {
				return nil, nil
			})
		}},
	}
	failed := registry.RegisterModules(log, reg, modules)
	require.Empty(t, failed)
	require.Equal(t, 2, reg.Len())

	srv, err := NewBuilder(store).
		WithProvisioningInfo(NewProvisioningInfo("vexlabs", "bench-unit")).
		WithSecureChannel(channel).
		WithComponentRegistry(reg).
		WithNetworkManager(&fakeNetManager{links: []string{"eth0"}}).
		WithDefaultTasks().
		Build(log)
	require.NoError(t, err)
	require.NotNil(t, srv)

	// The default maintenance set rides along.
	taskNames := make([]string, 0, 2)
	for _, task := range srv.runner.Tasks() {
		taskNames = append(taskNames, task.Name())
	}
	assert.Contains(t, taskNames, "resource-supervisor")
	assert.Contains(t, taskNames, "clock-sync")
}
