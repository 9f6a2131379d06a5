// Package tasks schedules the agent's recurring background work.
//
// The runner spawns one detached goroutine per periodic task. Tasks
// tick immediately on start and then on their fixed period, and run
// until process exit; a tick error is logged, never fatal. The default
// task set holds the resource supervisor (memory-pool and stack
// diagnostics every 60 seconds) and the clock-sync check.
package tasks
