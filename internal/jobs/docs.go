// Package jobs provides scheduled background tasks for the parcel backend.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field in the schedule.
//
// # Available Jobs
//
// SessionSweepJob disconnects live sessions idle for longer than the
// configured timeout and pings the others.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(hub, "*/30 * * * * *", 2*time.Minute, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
