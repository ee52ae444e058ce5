package jobs

import (
	"context"
	"log/slog"
	"time"

	"interpreting/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SearchSweepJob drives the order search lifecycle. Every second it
// hands the current time to the search sweep handler, which opens
// search on fresh orders, escalates expired tiers, restarts exhausted
// searches and recomputes stale candidate pools.
type SearchSweepJob struct {
	handler commands.RunSearchSweepCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSearchSweepJob creates the job around the sweep command handler.
func NewSearchSweepJob(handler commands.RunSearchSweepCommandHandler, logger *slog.Logger) *SearchSweepJob {
	return &SearchSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "search_sweep_job"),
	}
}

// Start begins the search sweep job to run every second.
func (j *SearchSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewRunSearchSweepCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Search sweep command construction failed", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Search sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Search sweep job started (running every second)")
	return nil
}

// Stop stops the search sweep job.
func (j *SearchSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Search sweep job stopped")
}
