package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/ntp"
	"github.com/vexlabs/device-agent/interfaces"
)

const (
	defaultNTPServer    = "pool.ntp.org"
	clockSyncPeriod     = 15 * time.Minute
	clockDriftThreshold = 500 * time.Millisecond
)

// Compile-time interface check.
var _ interfaces.PeriodicTask = (*ClockSyncTask)(nil)

// ClockSyncTask periodically checks the host clock offset against an
// NTP server. Certificate validation on the secure channel depends on
// a sane clock; a drifting device logs loudly before handshakes start
// failing.
type ClockSyncTask struct {
	server string
	log    *slog.Logger

	// query is swappable in tests.
	query func(server string) (*ntp.Response, error)
}

// NewClockSyncTask creates the clock check against the given server,
// defaulting to the public pool.
func NewClockSyncTask(server string, log *slog.Logger) *ClockSyncTask {
	if server == "" {
		server = defaultNTPServer
	}
	return &ClockSyncTask{server: server, log: log, query: ntp.Query}
}

// Name returns the task identifier.
func (t *ClockSyncTask) Name() string {
	return "clock-sync"
}

// Period returns the check interval.
func (t *ClockSyncTask) Period() time.Duration {
	return clockSyncPeriod
}

// Tick queries the NTP server and logs the measured offset.
func (t *ClockSyncTask) Tick(ctx context.Context) error {
	response, err := t.query(t.server)
	if err != nil {
		return fmt.Errorf("ntp query against %s failed: %w", t.server, err)
	}
	if err := response.Validate(); err != nil {
		return fmt.Errorf("ntp response from %s invalid: %w", t.server, err)
	}

	offset := response.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > clockDriftThreshold {
		t.log.Warn("Host clock is drifting",
			slog.Duration("offset", response.ClockOffset),
			slog.String("server", t.server))
		return nil
	}

	t.log.Debug("Clock offset within threshold",
		slog.Duration("offset", response.ClockOffset))
	return nil
}
