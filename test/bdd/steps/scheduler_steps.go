package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/fame0528/DarkFrame-sub009/internal/application/scheduler"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

// schedulerContext runs the standard jobs against a scripted mediator so job
// failures can be injected without touching the domain
type schedulerContext struct {
	clock    *shared.MockClock
	mediator *helpers.MockMediator
	sched    *scheduler.Scheduler
	lastErr  error
}

func (s *schedulerContext) reset() {
	s.clock = shared.NewMockClock(helpers.TestEpoch)
	s.mediator = helpers.NewMockMediator()
	s.sched = nil
	s.lastErr = nil
}

func (s *schedulerContext) theStandardJobsAreRegistered() error {
	s.sched = scheduler.New(scheduler.Config{JobTimeout: time.Second, ShutdownTimeout: time.Second}, s.clock)
	return scheduler.RegisterStandardJobs(s.sched, s.mediator, scheduler.Intervals{
		Impacts:   30 * time.Second,
		Missions:  time.Minute,
		Defense:   time.Minute,
		Retention: time.Hour,
	}, 50)
}

func (s *schedulerContext) requestsFailWith(request, message string) error {
	s.mediator.FailOn(request, errors.New(message))
	return nil
}

func (s *schedulerContext) requestsSucceedAgain(request string) error {
	s.mediator.FailOn(request, nil)
	return nil
}

func (s *schedulerContext) everyJobRunsOnce() error {
	for _, h := range s.sched.Health() {
		// Failures are recorded in health, not surfaced to the caller here
		_ = s.sched.RunNow(context.Background(), h.Name)
	}
	return nil
}

func (s *schedulerContext) jobIsRunNow(name string) error {
	s.lastErr = s.sched.RunNow(context.Background(), name)
	return nil
}

func (s *schedulerContext) jobShouldHaveRunsAndErrors(name string, runs, errs int) error {
	h, err := s.sched.JobHealth(name)
	if err != nil {
		return err
	}
	if h.ExecutionCount != int64(runs) || h.ErrorCount != int64(errs) {
		return fmt.Errorf("%s: expected %d runs and %d errors, got %d and %d", name, runs, errs, h.ExecutionCount, h.ErrorCount)
	}
	return nil
}

func (s *schedulerContext) jobLastErrorContains(name, text string) error {
	h, err := s.sched.JobHealth(name)
	if err != nil {
		return err
	}
	if !strings.Contains(h.LastError, text) {
		return fmt.Errorf("%s: expected last error to contain %q, got %q", name, text, h.LastError)
	}
	return nil
}

func (s *schedulerContext) jobShouldBeHealthy(name string) error {
	h, err := s.sched.JobHealth(name)
	if err != nil {
		return err
	}
	if !h.Healthy() {
		return fmt.Errorf("%s: expected healthy, last error %q", name, h.LastError)
	}
	return nil
}

func (s *schedulerContext) theRunFailsWith(reason string) error {
	var domainErr *shared.DomainError
	if !errors.As(s.lastErr, &domainErr) || string(domainErr.Reason) != reason {
		return fmt.Errorf("expected %s, got %v", reason, s.lastErr)
	}
	return nil
}

// InitializeSchedulerScenario registers the job scheduler steps
func InitializeSchedulerScenario(sc *godog.ScenarioContext) {
	s := &schedulerContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		if s.sched != nil {
			return ctx, s.sched.StopAll()
		}
		return ctx, nil
	})

	sc.Step(`^the standard jobs are registered$`, s.theStandardJobsAreRegistered)
	sc.Step(`^"([^"]*)" requests fail with "([^"]*)"$`, s.requestsFailWith)
	sc.Step(`^"([^"]*)" requests succeed again$`, s.requestsSucceedAgain)
	sc.Step(`^every job runs once$`, s.everyJobRunsOnce)
	sc.Step(`^job "([^"]*)" is run now$`, s.jobIsRunNow)
	sc.Step(`^job "([^"]*)" should have (\d+) runs? and (\d+) errors?$`, s.jobShouldHaveRunsAndErrors)
	sc.Step(`^job "([^"]*)" last error should contain "([^"]*)"$`, s.jobLastErrorContains)
	sc.Step(`^job "([^"]*)" should be healthy$`, s.jobShouldBeHealthy)
	sc.Step(`^the run fails with "([^"]*)"$`, s.theRunFailsWith)
}
