package jobs

import (
	"context"
	"log/slog"
	"time"

	"interpreting/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RepeatBookingJob clones the next occurrence of recurring bookings.
// Runs every minute; repeat schedules are day-granular, so a tighter
// cadence would only burn sweep transactions.
type RepeatBookingJob struct {
	handler commands.RunRepeatSweepCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRepeatBookingJob creates the job around the repeat sweep handler.
func NewRepeatBookingJob(handler commands.RunRepeatSweepCommandHandler, logger *slog.Logger) *RepeatBookingJob {
	return &RepeatBookingJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "repeat_booking_job"),
	}
}

// Start begins the repeat booking job to run every minute.
func (j *RepeatBookingJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewRunRepeatSweepCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Repeat sweep command construction failed", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Repeat sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Repeat booking job started (running every minute)")
	return nil
}

// Stop stops the repeat booking job.
func (j *RepeatBookingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Repeat booking job stopped")
}
