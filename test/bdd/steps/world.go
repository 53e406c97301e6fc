package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	actorCommands "github.com/fame0528/DarkFrame-sub009/internal/application/actor/commands"
	actorQueries "github.com/fame0528/DarkFrame-sub009/internal/application/actor/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

// worldContext is the state shared by every WMD scenario: one wired core over
// the shared test database, the actors it knows and the last request outcome
type worldContext struct {
	app     *helpers.TestApp
	ctx     context.Context
	actors  map[string]shared.ActorID
	lastErr error
	lastRes common.Response

	weaponID     string
	operatives   map[string]string
	missionID    string
	missionOwner shared.ActorID
	unitIDs      map[string]string
}

func (w *worldContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Game.MinTargetLevel = 3
	app, err := helpers.NewTestAppWithConfig(helpers.SharedTestDB, cfg)
	if err != nil {
		return err
	}

	w.app = app
	w.ctx = app.Context(context.Background())
	w.actors = make(map[string]shared.ActorID)
	w.lastErr = nil
	w.lastRes = nil
	w.weaponID = ""
	w.operatives = make(map[string]string)
	w.missionID = ""
	w.missionOwner = shared.ActorID{}
	w.unitIDs = make(map[string]string)
	return nil
}

func (w *worldContext) shutdown() error {
	if w.app == nil {
		return nil
	}
	err := w.app.Shutdown()
	w.app = nil
	return err
}

// send records the outcome so "the request ..." steps can assert on it
func (w *worldContext) send(request common.Request) error {
	w.lastRes, w.lastErr = w.app.Mediator.Send(w.ctx, request)
	return nil
}

// must sends a request that the scenario expects to succeed
func (w *worldContext) must(request common.Request) (common.Response, error) {
	resp, err := w.app.Mediator.Send(w.ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%T failed: %w", request, err)
	}
	return resp, nil
}

func (w *worldContext) actor(name string) (shared.ActorID, error) {
	id, ok := w.actors[name]
	if !ok {
		// Unknown names still resolve so "missing target" scenarios can be written
		return shared.NewActorID(name)
	}
	return id, nil
}

// Actors

func (w *worldContext) anActorAtLevelWith(name string, level, points, resources int) error {
	return w.registerActor(helpers.ActorFixture{ID: name, Level: level, ResearchPoints: points, Resources: resources})
}

func (w *worldContext) anActorInGroupAtLevelWith(name, group string, level, points, resources int) error {
	return w.registerActor(helpers.ActorFixture{ID: name, GroupID: group, GroupLevel: 1, Level: level, ResearchPoints: points, Resources: resources})
}

func (w *worldContext) registerActor(f helpers.ActorFixture) error {
	id, err := w.app.RegisterActor(w.ctx, f)
	if err != nil {
		return err
	}
	w.actors[f.ID] = id
	return nil
}

func (w *worldContext) actorIsProtectedForHours(name string, hours int) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	d := time.Duration(hours) * time.Hour
	_, err = w.must(&actorCommands.UpdateActorProfileCommand{ActorID: id, ProtectedFor: &d})
	return err
}

func (w *worldContext) actorIsAtPosition(name string, x, y int) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	_, err = w.must(&actorCommands.UpdateActorProfileCommand{ActorID: id, Position: &actor.Position{X: float64(x), Y: float64(y)}})
	return err
}

func (w *worldContext) actorHasHardening(name string, hardening int) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	_, err = w.must(&actorCommands.UpdateActorProfileCommand{ActorID: id, Hardening: &hardening})
	return err
}

func (w *worldContext) actorShouldHaveBalance(name string, amount int, currency string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	resp, err := w.must(&actorQueries.GetActorQuery{ActorID: id})
	if err != nil {
		return err
	}
	a := resp.(*actorQueries.GetActorResponse).Actor

	actual := a.Resources
	if currency == "research points" {
		actual = a.ResearchPoints
	}
	if actual != amount {
		return fmt.Errorf("expected %s to have %d %s, got %d", name, amount, currency, actual)
	}
	return nil
}

// Time

func (w *worldContext) minutesPass(minutes int) error {
	w.app.Clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func (w *worldContext) hoursPass(hours int) error {
	w.app.Clock.Advance(time.Duration(hours) * time.Hour)
	return nil
}

// Outcomes

func (w *worldContext) theRequestSucceeds() error {
	if w.lastErr != nil {
		return fmt.Errorf("expected success, got %v", w.lastErr)
	}
	return nil
}

func (w *worldContext) theRequestFailsWith(reason string) error {
	if w.lastErr == nil {
		return fmt.Errorf("expected %s, but the request succeeded", reason)
	}
	var domainErr *shared.DomainError
	if !errors.As(w.lastErr, &domainErr) {
		return fmt.Errorf("expected domain error %s, got %v", reason, w.lastErr)
	}
	if string(domainErr.Reason) != reason {
		return fmt.Errorf("expected %s, got %s (%s)", reason, domainErr.Reason, domainErr.Message)
	}
	return nil
}

func (w *worldContext) actorReceivesNotification(name, eventType string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	events, err := w.app.WaitForEvents(notification.EventType(eventType), 1, 2*time.Second)
	if err != nil {
		return err
	}
	for _, e := range events {
		for _, r := range e.Recipients {
			if r == id.String() {
				return nil
			}
		}
	}
	return fmt.Errorf("no %s event addressed to %s among %d", eventType, name, len(events))
}

func (w *worldContext) noNotificationIsSent(eventType string) error {
	// Give the dispatcher a moment to drain anything queued
	time.Sleep(50 * time.Millisecond)
	if events := w.app.Sink.OfType(notification.EventType(eventType)); len(events) > 0 {
		return fmt.Errorf("expected no %s events, got %d", eventType, len(events))
	}
	return nil
}

func (w *worldContext) errorDetailsMention(code string) error {
	var domainErr *shared.DomainError
	if !errors.As(w.lastErr, &domainErr) {
		return fmt.Errorf("expected a domain error, got %v", w.lastErr)
	}
	violations, _ := domainErr.Details["violations"].([]string)
	for _, v := range violations {
		if strings.HasPrefix(v, code+":") {
			return nil
		}
	}
	return fmt.Errorf("violation %s not reported; got %v", code, violations)
}

// InitializeWMDScenario registers every step of the WMD feature files
func InitializeWMDScenario(sc *godog.ScenarioContext) {
	w := &worldContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, w.reset()
	})
	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		return ctx, w.shutdown()
	})

	sc.Step(`^an actor "([^"]*)" at level (\d+) with (\d+) research points and (\d+) resources$`, w.anActorAtLevelWith)
	sc.Step(`^an actor "([^"]*)" in group "([^"]*)" at level (\d+) with (\d+) research points and (\d+) resources$`, w.anActorInGroupAtLevelWith)
	sc.Step(`^"([^"]*)" is protected for (\d+) hours$`, w.actorIsProtectedForHours)
	sc.Step(`^"([^"]*)" is at position (\d+), (\d+)$`, w.actorIsAtPosition)
	sc.Step(`^"([^"]*)" has hardening (\d+)$`, w.actorHasHardening)
	sc.Step(`^"([^"]*)" should have (\d+) (research points|resources)$`, w.actorShouldHaveBalance)
	sc.Step(`^(\d+) minutes pass$`, w.minutesPass)
	sc.Step(`^(\d+) hours pass$`, w.hoursPass)
	sc.Step(`^the request succeeds$`, w.theRequestSucceeds)
	sc.Step(`^the request fails with "([^"]*)"$`, w.theRequestFailsWith)
	sc.Step(`^the rejection reports "([^"]*)"$`, w.errorDetailsMention)
	sc.Step(`^"([^"]*)" receives a "([^"]*)" notification$`, w.actorReceivesNotification)
	sc.Step(`^no "([^"]*)" notification is sent$`, w.noNotificationIsSent)

	w.registerResearchSteps(sc)
	w.registerWeaponSteps(sc)
	w.registerEspionageSteps(sc)
	w.registerDefenseSteps(sc)
}
