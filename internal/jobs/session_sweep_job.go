package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep twice a minute.
const DefaultSweepSchedule = "*/30 * * * * *"

// SessionSweeper is the live hub as seen by the sweep job.
type SessionSweeper interface {
	Sweep(idle time.Duration) int
}

// SessionSweepJob periodically disconnects live sessions that stopped
// answering and pings the rest so their peers keep the socket open.
type SessionSweepJob struct {
	sweeper  SessionSweeper
	idle     time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSessionSweepJob creates the sweep job. An empty schedule falls back to
// DefaultSweepSchedule.
func NewSessionSweepJob(sweeper SessionSweeper, schedule string, idle time.Duration, logger *slog.Logger) *SessionSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &SessionSweepJob{
		sweeper:  sweeper,
		idle:     idle,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "session_sweep_job"),
	}
}

// Start registers the sweep on the schedule and starts the scheduler.
func (j *SessionSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session sweep job started",
		"schedule", j.schedule, "idleTimeout", j.idle.String())
	return nil
}

// Run performs one sweep.
func (j *SessionSweepJob) Run() {
	if swept := j.sweeper.Sweep(j.idle); swept > 0 {
		j.logger.InfoContext(context.Background(), "Idle live sessions disconnected", "count", swept)
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *SessionSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Session sweep job stopped")
}
