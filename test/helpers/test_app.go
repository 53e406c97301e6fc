package helpers

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	actorCommands "github.com/fame0528/DarkFrame-sub009/internal/application/actor/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

// TestEpoch is the mock clock's starting time in every test app
var TestEpoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp is a fully wired core over a test database with a controllable
// clock, scripted randomness and an in-memory notification sink
type TestApp struct {
	*bootstrap.App
	Clock  *shared.MockClock
	Random *shared.SequenceRandom
	Sink   *RecordingSink
}

// NewTestApp wires the core over db. rolls feed the mission resolver in order
// and repeat; none means every roll is 0.
func NewTestApp(db *gorm.DB, rolls ...float64) (*TestApp, error) {
	return NewTestAppWithConfig(db, config.Default(), rolls...)
}

// NewTestAppWithConfig is NewTestApp with explicit game settings
func NewTestAppWithConfig(db *gorm.DB, cfg *config.Config, rolls ...float64) (*TestApp, error) {
	clock := shared.NewMockClock(TestEpoch)
	random := shared.NewSequenceRandom(rolls...)
	sink := NewRecordingSink()

	// Events are observed through the recording sink; the store sink would
	// race the scenario's own writes.
	cfg.Notifications.StoreEnabled = false

	app, err := bootstrap.Build(cfg, bootstrap.Options{
		DB:         db,
		ExtraSinks: []notification.Sink{sink},
		Clock:      clock,
		Random:     random,
	})
	if err != nil {
		return nil, err
	}
	app.Start(context.Background())

	return &TestApp{App: app, Clock: clock, Random: random, Sink: sink}, nil
}

// Shutdown flushes notifications. The database is left open for the caller.
func (a *TestApp) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Close(ctx)
}

// WaitForEvents polls the sink until at least n events of eventType arrived
func (a *TestApp) WaitForEvents(eventType notification.EventType, n int, timeout time.Duration) ([]notification.Event, error) {
	deadline := time.Now().Add(timeout)
	for {
		events := a.Sink.OfType(eventType)
		if len(events) >= n {
			return events, nil
		}
		if time.Now().After(deadline) {
			return events, fmt.Errorf("expected %d %s event(s), got %d", n, eventType, len(events))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// ActorFixture describes an actor to register
type ActorFixture struct {
	ID             string
	Level          int
	GroupID        string
	GroupLevel     int
	X, Y           float64
	ResearchPoints int
	Resources      int
}

// RegisterActor registers a fixture actor through the mediator
func (a *TestApp) RegisterActor(ctx context.Context, f ActorFixture) (shared.ActorID, error) {
	if f.Level == 0 {
		f.Level = 10
	}
	_, err := a.Mediator.Send(ctx, &actorCommands.RegisterActorCommand{
		ActorID:        f.ID,
		Level:          f.Level,
		GroupID:        f.GroupID,
		GroupLevel:     f.GroupLevel,
		Position:       actor.Position{X: f.X, Y: f.Y},
		ResearchPoints: f.ResearchPoints,
		Resources:      f.Resources,
	})
	if err != nil {
		return shared.ActorID{}, err
	}
	return shared.NewActorID(f.ID)
}
