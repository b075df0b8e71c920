package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/sacredtrees/sappie/internal/bot/tasks"
	"github.com/sacredtrees/sappie/internal/config"
)

// Scheduler runs the registered tasks on their configured cron schedule or
// interval.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler whose cron expressions are read in loc.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, loc *time.Location, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler(gocron.WithLocation(loc), gocron.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// jobDefinition picks a cron job when a schedule is set, else an interval.
func jobDefinition(tc config.TaskConfig) (gocron.JobDefinition, string, error) {
	switch {
	case tc.Schedule != "":
		return gocron.CronJob(tc.Schedule, true), tc.Schedule, nil
	case tc.Interval > 0:
		return gocron.DurationJob(tc.Interval), "every " + tc.Interval.String(), nil
	default:
		return nil, "", errors.New("task has neither a schedule nor an interval")
	}
}

// Start schedules every enabled task and starts ticking. Tasks receive ctx,
// so cancelling it aborts any run in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}

	var scheduled int
	if s.cfg != nil {
		for name, tc := range s.cfg.Tasks {
			if !tc.Enabled {
				s.logger.Info("Skipping disabled task", "task_name", name)
				continue
			}
			fn, ok := s.taskMap[name]
			if !ok {
				s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", name)
				continue
			}
			def, desc, err := jobDefinition(tc)
			if err != nil {
				s.logger.Warn("Skipping task", "task_name", name, "error", err)
				continue
			}

			_, err = s.scheduler.NewJob(def,
				gocron.NewTask(s.run, ctx, name, fn),
				gocron.WithName(name),
				gocron.WithSingletonMode(gocron.LimitModeReschedule),
			)
			if err != nil {
				return fmt.Errorf("failed to schedule task %s (%s): %w", name, desc, err)
			}
			s.logger.Info("Scheduled task", "task_name", name, "schedule", desc)
			scheduled++
		}
	}
	if scheduled == 0 {
		s.logger.Warn("No scheduler tasks configured")
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduled)
	return nil
}

func (s *Scheduler) run(ctx context.Context, name string, fn tasks.ScheduledTaskFunc) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Debug("Running scheduled task", "task_name", name)
	start := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Error("Scheduled task failed", "task_name", name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("Finished scheduled task", "task_name", name, "duration", time.Since(start))
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	if err := s.scheduler.Shutdown(); err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
		return err
	}
	s.logger.Info("Scheduler stopped")
	return nil
}
