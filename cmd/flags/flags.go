// Package flags holds the shared command-line flag definitions and the
// logger setup helper for the agent binaries.
package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/vexlabs/device-agent/common"
)

func SetupLogger(cCtx *cli.Context) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJSONFlag.Name),
		Service: cCtx.String(LogServiceFlag.Name),
		Version: common.Version,
	})

	if cCtx.Bool(LogUIDFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var StoreURIFlag = &cli.StringFlag{
	Name:    "store-uri",
	Value:   "file:///var/lib/device-agent/",
	Usage:   "credential store location: file://, sqlite:// or mem://",
	EnvVars: []string{"DEVICE_AGENT_STORE_URI"},
}

var ListenPortFlag = &cli.IntFlag{
	Name:  "listen-port",
	Value: 12346,
	Usage: "port for the secure channel listener",
}

var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics, empty to disable",
}

var ManufacturerFlag = &cli.StringFlag{
	Name:  "manufacturer",
	Value: "vexlabs",
	Usage: "manufacturer reported to the provisioning flow",
}

var ModelFlag = &cli.StringFlag{
	Name:  "model",
	Value: "device-agent",
	Usage: "device model reported to the provisioning flow",
}

var NTPServerFlag = &cli.StringFlag{
	Name:  "ntp-server",
	Value: "",
	Usage: "NTP server for the clock-sync task, empty for the public pool",
}

// Build-time fallback credentials. Every one is optional; a category's
// fallback is only used when all of its fields are present.

var FallbackFileFlag = &cli.StringFlag{
	Name:    "fallback-file",
	Value:   "",
	Usage:   "YAML file with fallback credentials baked in at image build",
	EnvVars: []string{"DEVICE_AGENT_FALLBACK_FILE"},
}

var WifiSSIDFlag = &cli.StringFlag{
	Name:    "wifi-ssid",
	Value:   "",
	Usage:   "fallback network SSID",
	EnvVars: []string{"DEVICE_AGENT_WIFI_SSID"},
}

var WifiPasswordFlag = &cli.StringFlag{
	Name:    "wifi-password",
	Value:   "",
	Usage:   "fallback network password",
	EnvVars: []string{"DEVICE_AGENT_WIFI_PASSWORD"},
}

var DeviceIDFlag = &cli.StringFlag{
	Name:    "device-id",
	Value:   "",
	Usage:   "fallback device id",
	EnvVars: []string{"DEVICE_AGENT_DEVICE_ID"},
}

var DeviceSecretFlag = &cli.StringFlag{
	Name:    "device-secret",
	Value:   "",
	Usage:   "fallback device secret",
	EnvVars: []string{"DEVICE_AGENT_DEVICE_SECRET"},
}

var AppAddressFlag = &cli.StringFlag{
	Name:    "app-address",
	Value:   "",
	Usage:   "fallback control application address",
	EnvVars: []string{"DEVICE_AGENT_APP_ADDRESS"},
}

var LogJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}

var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}

var LogUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}
