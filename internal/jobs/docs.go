// Package jobs provides scheduled background tasks for the booking
// engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to drive the periodic sweeps the order lifecycle depends on.
//
// # Available Jobs
//
// 1. SearchSweepJob - Runs every second: opens search on fresh orders,
// escalates expired tiers, restarts exhausted searches, and recomputes
// candidate pools for orders flagged as needing search.
// 2. RepeatBookingJob - Runs every minute to clone the next occurrence
// of recurring bookings whose schedule is due.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(searchSweepHandler, repeatSweepHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Sweep handlers tolerate lost optimistic-lock races internally; the
// errors they do return indicate real faults and are logged here.
// Failed job starts stop any already running jobs.
package jobs
