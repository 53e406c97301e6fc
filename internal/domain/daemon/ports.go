package daemon

import "context"

// HealthSource exposes point-in-time job health, implemented by the scheduler
type HealthSource interface {
	Health() []JobHealth
}

// JobControl lets an operator surface inspect jobs and trigger an immediate run.
// RunNow goes through the same overlap guard as the scheduled tick.
type JobControl interface {
	HealthSource
	RunNow(ctx context.Context, name string) error
}
