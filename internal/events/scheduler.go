package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a named scheduled task
type Job struct {
	Run      func()
	Name     string
	Schedule string
}

// Scheduler runs jobs on cron schedules. A run is skipped while the
// previous run of the same job is still in progress.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers jobs. An invalid schedule is an error.
func NewScheduler(jobs []Job, logger *slog.Logger) (*Scheduler, error) {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	for _, job := range jobs {
		if _, err := c.AddFunc(job.Schedule, job.Run); err != nil {
			return nil, fmt.Errorf("failed to schedule %s job: %w", job.Name, err)
		}
		logger.Info("scheduled job", "job", job.Name, "schedule", job.Schedule)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs or ctx, whichever
// comes first
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stopped before running jobs finished")
	}
}
