package tasks

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/vexlabs/device-agent/interfaces"
)

// resourcePeriod is the fixed diagnostic sampling interval.
const resourcePeriod = 60 * time.Second

// MemoryPool exposes total and free capacity of one memory region.
type MemoryPool interface {
	// Name identifies the pool in logs and metrics.
	Name() string

	// Sample returns total and free capacity in bytes.
	Sample() (total, free uint64, err error)
}

// UtilizationRecorder receives pool samples, typically backed by
// Prometheus gauges. May be nil on the supervisor.
type UtilizationRecorder interface {
	RecordPool(name string, total, free uint64)
	RecordStackInUse(bytes uint64)
}

// Compile-time interface check.
var _ interfaces.PeriodicTask = (*ResourceSupervisor)(nil)

// ResourceSupervisor periodically samples the memory pools and the
// goroutine stack high-water mark and logs the result. It only reads
// diagnostic counters; it never touches credential or registry state.
type ResourceSupervisor struct {
	log      *slog.Logger
	pools    []MemoryPool
	recorder UtilizationRecorder
}

// NewResourceSupervisor creates the supervisor over the given pools.
// With no pools it samples the defaults: the Go heap and system
// memory.
func NewResourceSupervisor(log *slog.Logger, recorder UtilizationRecorder, pools ...MemoryPool) *ResourceSupervisor {
	if len(pools) == 0 {
		pools = []MemoryPool{&HeapPool{}, &SystemPool{}}
	}
	return &ResourceSupervisor{log: log, pools: pools, recorder: recorder}
}

// Name returns the task identifier.
func (s *ResourceSupervisor) Name() string {
	return "resource-supervisor"
}

// Period returns the fixed 60 second sampling interval.
func (s *ResourceSupervisor) Period() time.Duration {
	return resourcePeriod
}

// Tick samples every pool and the stack high-water mark.
func (s *ResourceSupervisor) Tick(ctx context.Context) error {
	for _, pool := range s.pools {
		total, free, err := pool.Sample()
		if err != nil {
			s.log.Warn("Memory pool sample failed",
				slog.String("pool", pool.Name()),
				"err", err)
			continue
		}

		s.log.Info("Memory status",
			slog.String("pool", pool.Name()),
			slog.Uint64("free", free),
			slog.Uint64("total", total),
			slog.String("free_pct", fmt.Sprintf("%.2f%%", FreePercent(total, free))))

		if s.recorder != nil {
			s.recorder.RecordPool(pool.Name(), total, free)
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	s.log.Info("Stack high-water mark",
		slog.Uint64("stack_in_use", mem.StackInuse),
		slog.Uint64("stack_reserved", mem.StackSys),
		slog.Int("goroutines", runtime.NumGoroutine()))
	if s.recorder != nil {
		s.recorder.RecordStackInUse(mem.StackInuse)
	}
	return nil
}

// FreePercent computes the free fraction of a pool as a percentage.
// A zero-capacity pool reports 0 rather than dividing by zero.
func FreePercent(total, free uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(free) / float64(total) * 100
}

// HeapPool samples the Go heap: the fast pool the agent allocates
// from.
type HeapPool struct{}

// Name returns the pool identifier.
func (p *HeapPool) Name() string { return "heap" }

// Sample reads heap capacity from the runtime.
func (p *HeapPool) Sample() (uint64, uint64, error) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return mem.HeapSys, mem.HeapIdle, nil
}

// SystemPool samples host memory from /proc/meminfo: the larger
// auxiliary pool.
type SystemPool struct{}

// Name returns the pool identifier.
func (p *SystemPool) Name() string { return "system" }

// Sample parses MemTotal and MemAvailable.
func (p *SystemPool) Sample() (uint64, uint64, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read meminfo: %w", err)
	}
	defer f.Close()

	var total, available uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = value * 1024
		case "MemAvailable:":
			available = value * 1024
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("failed to parse meminfo: %w", err)
	}
	return total, available, nil
}
