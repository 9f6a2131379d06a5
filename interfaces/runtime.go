package interfaces

import (
	"context"
	"time"
)

// NetworkManager reports host connectivity. The server assembler
// requires one; construction failure is fatal at boot.
type NetworkManager interface {
	// Available reports whether at least one usable link is up.
	Available(ctx context.Context) bool

	// ActiveLinks returns the names of non-loopback links that are up.
	ActiveLinks() ([]string, error)
}

// Advertiser announces the device on the local network so the pairing
// flow can find it.
type Advertiser interface {
	// Start begins answering discovery queries in the background.
	Start() error

	// Shutdown stops the responder.
	Shutdown() error
}

// PeriodicTask is a recurring background job scheduled by the task
// runner. Tasks run until process exit; there is no cancellation handle
// beyond the context the runner passes to each tick.
type PeriodicTask interface {
	// Name returns an identifier for logging.
	Name() string

	// Period is the interval between ticks.
	Period() time.Duration

	// Tick performs one iteration. Errors are logged, never fatal.
	Tick(ctx context.Context) error
}
