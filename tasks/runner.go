package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/vexlabs/device-agent/interfaces"
)

// Runner owns the periodic task set and schedules each task on its own
// goroutine. There is no per-task cancellation handle; the context
// passed to Start bounds the lifetime of all tasks, and in production
// that context lives until process exit.
type Runner struct {
	log   *slog.Logger
	tasks []interfaces.PeriodicTask
}

// NewRunner creates a runner with the given initial tasks.
func NewRunner(log *slog.Logger, tasks ...interfaces.PeriodicTask) *Runner {
	return &Runner{log: log, tasks: tasks}
}

// Add appends a task. Must be called before Start.
func (r *Runner) Add(task interfaces.PeriodicTask) {
	r.tasks = append(r.tasks, task)
}

// Tasks returns the scheduled task set.
func (r *Runner) Tasks() []interfaces.PeriodicTask {
	return r.tasks
}

// Start spawns the task goroutines and returns immediately.
func (r *Runner) Start(ctx context.Context) {
	for _, task := range r.tasks {
		r.log.Info("Scheduling periodic task",
			slog.String("task", task.Name()),
			slog.Duration("period", task.Period()))
		go r.run(ctx, task)
	}
}

func (r *Runner) run(ctx context.Context, task interfaces.PeriodicTask) {
	log := r.log.With(slog.String("task", task.Name()))

	ticker := time.NewTicker(task.Period())
	defer ticker.Stop()

	for {
		if err := task.Tick(ctx); err != nil {
			log.Warn("Periodic task tick failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
