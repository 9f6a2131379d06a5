package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vexlabs/device-agent/common"
	"github.com/vexlabs/device-agent/interfaces"
	"github.com/vexlabs/device-agent/metrics"
	"github.com/vexlabs/device-agent/registry"
	"github.com/vexlabs/device-agent/securechannel"
	"github.com/vexlabs/device-agent/tasks"
)

// DefaultPort is the well-known port the secure channel listener binds.
const DefaultPort = 12346

// Builder aggregates the boot products into a runnable server. The
// resulting configuration is immutable once Build has returned.
type Builder struct {
	store       interfaces.CredentialStore
	info        ProvisioningInfo
	channel     *securechannel.Backend
	registry    *registry.ComponentRegistry
	netManager  interfaces.NetworkManager
	advertiser  interfaces.Advertiser
	taskList    []interfaces.PeriodicTask
	defaults    bool
	ntpServer   string
	port        int
	metricsAddr string
}

// NewBuilder starts a builder over the resolved credential store.
func NewBuilder(store interfaces.CredentialStore) *Builder {
	return &Builder{store: store, port: DefaultPort}
}

// WithProvisioningInfo sets the device descriptor.
func (b *Builder) WithProvisioningInfo(info ProvisioningInfo) *Builder {
	b.info = info
	return b
}

// WithSecureChannel sets the negotiation backend carrying the shared
// transport identity.
func (b *Builder) WithSecureChannel(channel *securechannel.Backend) *Builder {
	b.channel = channel
	return b
}

// WithComponentRegistry sets the populated capability registry.
func (b *Builder) WithComponentRegistry(reg *registry.ComponentRegistry) *Builder {
	b.registry = reg
	return b
}

// WithNetworkManager sets the required connectivity manager.
func (b *Builder) WithNetworkManager(manager interfaces.NetworkManager) *Builder {
	b.netManager = manager
	return b
}

// WithAdvertiser sets the optional local-discovery advertiser.
func (b *Builder) WithAdvertiser(advertiser interfaces.Advertiser) *Builder {
	b.advertiser = advertiser
	return b
}

// WithListenPort overrides the well-known listener port.
func (b *Builder) WithListenPort(port int) *Builder {
	b.port = port
	return b
}

// WithMetricsAddr enables the Prometheus endpoint on a secondary
// address.
func (b *Builder) WithMetricsAddr(addr string) *Builder {
	b.metricsAddr = addr
	return b
}

// WithTasks appends periodic tasks to the schedule.
func (b *Builder) WithTasks(taskList ...interfaces.PeriodicTask) *Builder {
	b.taskList = append(b.taskList, taskList...)
	return b
}

// WithDefaultTasks schedules the standard maintenance set: the
// resource supervisor and the clock-sync check.
func (b *Builder) WithDefaultTasks() *Builder {
	b.defaults = true
	return b
}

// WithNTPServer overrides the clock-sync server used by the default
// task set.
func (b *Builder) WithNTPServer(server string) *Builder {
	b.ntpServer = server
	return b
}

// Build validates the aggregate and assembles the server. Any missing
// required dependency is an error; the caller treats it as fatal since
// there is no degraded server variant.
func (b *Builder) Build(log *slog.Logger) (*Server, error) {
	switch {
	case b.store == nil:
		return nil, errors.New("server requires a credential store")
	case b.channel == nil:
		return nil, errors.New("server requires a secure channel backend")
	case b.registry == nil:
		return nil, errors.New("server requires a component registry")
	case b.netManager == nil:
		return nil, errors.New("server requires a network manager")
	}

	var metricsSrv *metrics.MetricsServer
	if b.metricsAddr != "" {
		var err error
		metricsSrv, err = metrics.New(common.PackageName, b.metricsAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	taskList := b.taskList
	if b.defaults {
		var recorder tasks.UtilizationRecorder
		if metricsSrv != nil {
			recorder = metricsSrv
		}
		taskList = append(taskList,
			tasks.NewResourceSupervisor(log, recorder),
			tasks.NewClockSyncTask(b.ntpServer, log),
		)
	}

	srv := &Server{
		log:        log,
		store:      b.store,
		info:       b.info,
		channel:    b.channel,
		registry:   b.registry,
		netManager: b.netManager,
		advertiser: b.advertiser,
		runner:     tasks.NewRunner(log, taskList...),
		metricsSrv: metricsSrv,
		port:       b.port,
	}
	srv.isReady.Store(true)

	tlsCert := b.channel.Identity().TLSCertificate()
	srv.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", b.port),
		Handler:      srv.router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		TLSConfig:    newTLSConfig(tlsCert),
	}

	return srv, nil
}
