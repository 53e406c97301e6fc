package bootstrap

import (
	"github.com/fame0528/DarkFrame-sub009/internal/application/scheduler"
)

// NewScheduler builds a scheduler with the standard jobs registered against
// the app's mediator. Loops are not started.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	cfg := a.Config.Scheduler
	s := scheduler.New(scheduler.Config{
		JobTimeout:      cfg.JobTimeout,
		ShutdownTimeout: a.Config.Daemon.ShutdownTimeout,
	}, a.Clock)

	err := scheduler.RegisterStandardJobs(s, a.Mediator, scheduler.Intervals{
		Impacts:   cfg.ImpactInterval,
		Missions:  cfg.MissionInterval,
		Defense:   cfg.DefenseInterval,
		Retention: cfg.RetentionInterval,
	}, cfg.BatchSize)
	if err != nil {
		return nil, err
	}
	return s, nil
}
