package scheduler

import (
	"context"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	defenseCmd "github.com/fame0528/DarkFrame-sub009/internal/application/defense/commands"
	espionageCmd "github.com/fame0528/DarkFrame-sub009/internal/application/espionage/commands"
	notificationCmd "github.com/fame0528/DarkFrame-sub009/internal/application/notification/commands"
	weaponCmd "github.com/fame0528/DarkFrame-sub009/internal/application/weapon/commands"
)

// Names of the standard background jobs
const (
	JobWeaponImpacts         = "weapon_impacts"
	JobMissionCompletion     = "mission_completion"
	JobDefenseMaintenance    = "defense_maintenance"
	JobNotificationRetention = "notification_retention"
)

// Intervals configures how often each standard job ticks
type Intervals struct {
	Impacts   time.Duration
	Missions  time.Duration
	Defense   time.Duration
	Retention time.Duration
}

// RegisterStandardJobs wires the time-driven sweeps to the mediator. Each job
// sends its command with the tick time so handlers never read the clock themselves.
func RegisterStandardJobs(s *Scheduler, m common.Mediator, intervals Intervals, batchSize int) error {
	jobs := []struct {
		name     string
		interval time.Duration
		request  func(now time.Time) common.Request
	}{
		{JobWeaponImpacts, intervals.Impacts, func(now time.Time) common.Request {
			return &weaponCmd.ProcessImpactsCommand{Now: now, Limit: batchSize}
		}},
		{JobMissionCompletion, intervals.Missions, func(now time.Time) common.Request {
			return &espionageCmd.CompleteDueMissionsCommand{Now: now, Limit: batchSize}
		}},
		{JobDefenseMaintenance, intervals.Defense, func(now time.Time) common.Request {
			return &defenseCmd.ProcessDefenseCommand{Now: now, Limit: batchSize}
		}},
		{JobNotificationRetention, intervals.Retention, func(now time.Time) common.Request {
			return &notificationCmd.PurgeNotificationsCommand{Now: now}
		}},
	}

	for _, j := range jobs {
		build := j.request
		if err := s.Register(j.name, j.interval, func(ctx context.Context, now time.Time) error {
			_, err := m.Send(ctx, build(now))
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}
