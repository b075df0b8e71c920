package tasks

import (
	"context"

	"github.com/sacredtrees/sappie/internal/config"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// is cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns every task keyed by the name used in the
// scheduler.tasks config section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		config.TaskSacredPost:     newSacredPostTask(deps),
		config.TaskGroupMusings:   newGroupMusingsTask(deps),
		config.TaskSQLMaintenance: newSQLMaintenanceTask(deps),
	}
	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
