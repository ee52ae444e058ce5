package jobs

import (
	"fmt"
	"log/slog"

	"interpreting/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	searchSweepJob   *SearchSweepJob
	repeatBookingJob *RepeatBookingJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	searchSweepHandler commands.RunSearchSweepCommandHandler,
	repeatSweepHandler commands.RunRepeatSweepCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		searchSweepJob:   NewSearchSweepJob(searchSweepHandler, logger),
		repeatBookingJob: NewRepeatBookingJob(repeatSweepHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.searchSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start search sweep job: %w", err)
	}

	if err := jm.repeatBookingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.searchSweepJob.Stop()
		return fmt.Errorf("failed to start repeat booking job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.repeatBookingJob.Stop()
	jm.searchSweepJob.Stop()
}
