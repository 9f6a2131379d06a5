package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vexlabs/device-agent/bootstrap"
	"github.com/vexlabs/device-agent/cmd/flags"
	"github.com/vexlabs/device-agent/cryptoutils"
	"github.com/vexlabs/device-agent/discovery"
	"github.com/vexlabs/device-agent/interfaces"
	"github.com/vexlabs/device-agent/modules/builtin"
	"github.com/vexlabs/device-agent/network"
	"github.com/vexlabs/device-agent/registry"
	"github.com/vexlabs/device-agent/securechannel"
	"github.com/vexlabs/device-agent/server"
	"github.com/vexlabs/device-agent/storage"
)

var cliFlags = []cli.Flag{
	flags.StoreURIFlag,
	flags.ListenPortFlag,
	flags.MetricsAddrFlag,
	flags.ManufacturerFlag,
	flags.ModelFlag,
	flags.NTPServerFlag,
	flags.FallbackFileFlag,
	flags.WifiSSIDFlag,
	flags.WifiPasswordFlag,
	flags.DeviceIDFlag,
	flags.DeviceSecretFlag,
	flags.AppAddressFlag,
	flags.LogJSONFlag,
	flags.LogDebugFlag,
	flags.LogUIDFlag,
	flags.LogServiceFlag,
}

func main() {
	app := &cli.App{
		Name:   "device-agent",
		Usage:  "Boot and run the connected-device server",
		Flags:  cliFlags,
		Action: run,
	}

	// Fatal boot errors abort the process; the supervising watchdog
	// decides what happens next.
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)
	logger.Info("Device agent started")

	// Credential store comes up first; everything else depends on it.
	location, err := interfaces.NewStoreLocation(cCtx.String(flags.StoreURIFlag.Name))
	if err != nil {
		logger.Error("Invalid credential store location", "err", err)
		return err
	}
	store, err := storage.NewStoreFactory(logger).StoreFor(location)
	if err != nil {
		logger.Error("Failed to open credential store", "err", err)
		return err
	}

	// Resolve persisted credentials against build-time fallbacks.
	fallback, err := bootstrap.LoadFallbackFile(cCtx.String(flags.FallbackFileFlag.Name))
	if err != nil {
		logger.Error("Failed to load fallback credentials", "err", err)
		return err
	}
	fallback = fallback.Merge(bootstrap.FallbackCredentials{
		SSID:         cCtx.String(flags.WifiSSIDFlag.Name),
		Password:     cCtx.String(flags.WifiPasswordFlag.Name),
		DeviceID:     cCtx.String(flags.DeviceIDFlag.Name),
		DeviceSecret: cCtx.String(flags.DeviceSecretFlag.Name),
		AppAddress:   cCtx.String(flags.AppAddressFlag.Name),
	})

	if err := bootstrap.NewResolver(store, fallback, logger).Resolve(); err != nil {
		logger.Error("Credential resolution failed", "err", err)
		return err
	}

	// Fresh transport identity, regenerated every boot.
	identity, err := cryptoutils.GenerateTransportIdentity("device-agent.local")
	if err != nil {
		logger.Error("Failed to generate transport identity", "err", err)
		return err
	}
	channel, err := securechannel.NewBackend(identity, logger)
	if err != nil {
		logger.Error("Failed to initialize secure channel backend", "err", err)
		return err
	}

	// Capability registry: registration failures degrade, never abort.
	componentRegistry := registry.NewComponentRegistry()
	if failed := registry.RegisterModules(logger, componentRegistry, builtin.Modules()); len(failed) > 0 {
		logger.Warn("Running with a reduced capability set",
			"failed_modules", len(failed),
			"registered_models", componentRegistry.Len())
	}

	netManager, err := network.NewManager(logger)
	if err != nil {
		logger.Error("Failed to initialize network manager", "err", err)
		return err
	}

	instance := cCtx.String(flags.DeviceIDFlag.Name)
	if creds, err := store.DeviceCredentials(); err == nil {
		instance = creds.ID
	}
	if instance == "" {
		instance, _ = os.Hostname()
	}
	listenPort := cCtx.Int(flags.ListenPortFlag.Name)
	advertiser, err := discovery.NewAdvertiser(instance, uint16(listenPort), logger)
	if err != nil {
		logger.Error("Failed to initialize discovery advertiser", "err", err)
		return err
	}

	info := server.NewProvisioningInfo(
		cCtx.String(flags.ManufacturerFlag.Name),
		cCtx.String(flags.ModelFlag.Name))

	srv, err := server.NewBuilder(store).
		WithProvisioningInfo(info).
		WithSecureChannel(channel).
		WithComponentRegistry(componentRegistry).
		WithNetworkManager(netManager).
		WithAdvertiser(advertiser).
		WithListenPort(listenPort).
		WithMetricsAddr(cCtx.String(flags.MetricsAddrFlag.Name)).
		WithDefaultTasks().
		WithNTPServer(cCtx.String(flags.NTPServerFlag.Name)).
		Build(logger)
	if err != nil {
		logger.Error("Failed to build device server", "err", err)
		return err
	}

	// Terminal call: the server owns the process from here on.
	return srv.RunForever(context.Background())
}
