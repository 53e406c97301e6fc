package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actorCommands "github.com/fame0528/DarkFrame-sub009/internal/application/actor/commands"
	actorQueries "github.com/fame0528/DarkFrame-sub009/internal/application/actor/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	notificationQueries "github.com/fame0528/DarkFrame-sub009/internal/application/notification/queries"
	researchCommands "github.com/fame0528/DarkFrame-sub009/internal/application/research/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/application/scheduler"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	db := helpers.NewTestDB(t)

	app, err := bootstrap.Build(config.Default(), bootstrap.Options{
		DB:    db,
		Clock: shared.NewMockClock(helpers.TestEpoch),
	})
	require.NoError(t, err)
	app.Start(context.Background())
	return app
}

func TestBuild_StoresNotificationsForRecipients(t *testing.T) {
	app := buildApp(t)
	ctx := app.Context(context.Background())

	_, err := app.Mediator.Send(ctx, &actorCommands.RegisterActorCommand{ActorID: "alpha", Level: 10, ResearchPoints: 500})
	require.NoError(t, err)

	alpha, err := shared.NewActorID("alpha")
	require.NoError(t, err)
	_, err = app.Mediator.Send(ctx, &researchCommands.StartResearchCommand{ActorID: alpha, TechID: "rocketry"})
	require.NoError(t, err)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Close(closeCtx))

	// The app did not open the database, so it is still usable after Close
	resp, err := app.Mediator.Send(ctx, &notificationQueries.ListNotificationsQuery{ActorID: alpha, Limit: 10})
	require.NoError(t, err)

	events := resp.(*notificationQueries.ListNotificationsResponse).Events
	require.Len(t, events, 1)
	assert.Equal(t, notification.EventResearchStarted, events[0].Type)
}

func TestNewScheduler_RegistersStandardJobs(t *testing.T) {
	app := buildApp(t)
	defer app.Close(context.Background())

	sched, err := app.NewScheduler()
	require.NoError(t, err)

	var names []string
	for _, h := range sched.Health() {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{
		scheduler.JobDefenseMaintenance,
		scheduler.JobMissionCompletion,
		scheduler.JobNotificationRetention,
		scheduler.JobWeaponImpacts,
	}, names)

	require.NoError(t, sched.RunNow(app.Context(context.Background()), scheduler.JobWeaponImpacts))
	health, err := sched.JobHealth(scheduler.JobWeaponImpacts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), health.ExecutionCount)
	assert.True(t, health.Healthy())
}

func TestBuild_RejectsMissingCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Game.CatalogPath = "/nonexistent/catalog.yaml"

	_, err := bootstrap.Build(cfg, bootstrap.Options{DB: helpers.NewTestDB(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalogs")
}

func TestBuild_RegistersEveryOperation(t *testing.T) {
	app := buildApp(t)

	names := common.RegisteredRequests(app.Mediator)
	for _, want := range []string{
		"StartResearchCommand",
		"LaunchWeaponCommand",
		"ProcessImpactsCommand",
		"StartMissionCommand",
		"StartRepairCommand",
		"ListNotificationsQuery",
	} {
		assert.Contains(t, names, want)
	}
}

func TestBuild_ReopensExistingDatabaseFile(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "wmd.db")

	first, err := bootstrap.Build(cfg, bootstrap.Options{})
	require.NoError(t, err)
	ctx := first.Context(context.Background())
	_, err = first.Mediator.Send(ctx, &actorCommands.RegisterActorCommand{ActorID: "alpha", Level: 10, ResearchPoints: 500})
	require.NoError(t, err)
	require.NoError(t, first.Close(context.Background()))

	second, err := bootstrap.Build(cfg, bootstrap.Options{})
	require.NoError(t, err, "migrating an already migrated file must be a no-op")
	defer second.Close(context.Background())

	alpha := shared.MustNewActorID("alpha")
	_, err = second.Mediator.Send(second.Context(context.Background()), &actorQueries.GetActorQuery{ActorID: alpha})
	require.NoError(t, err)
}
