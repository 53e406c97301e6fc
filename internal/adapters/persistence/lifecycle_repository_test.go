package persistence_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

func TestWeaponRepository_TransitionIsConditional(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormWeaponRepository(db)
	ctx := context.Background()
	owner := shared.MustNewActorID("alice")

	spec := weapon.PayloadSpec{
		Type:           "MISSILE",
		Name:           "Missile",
		Components:     []string{"warhead"},
		FlightDuration: time.Minute,
		MaxRange:       100,
		Damage:         10,
		Cost:           5,
	}
	w := weapon.NewWeapon("wpn-1", owner, spec, 5, epoch)
	require.NoError(t, repo.Add(ctx, w))

	first, err := repo.FindByID(ctx, "wpn-1")
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, "wpn-1")
	require.NoError(t, err)

	_, err = first.InstallComponent("warhead", owner, epoch)
	require.NoError(t, err)
	require.NoError(t, repo.Transition(ctx, first, weapon.StatusAssembling))
	assert.Equal(t, 1, first.Version())

	_, err = stale.InstallComponent("warhead", owner, epoch)
	require.NoError(t, err)
	err = repo.Transition(ctx, stale, weapon.StatusAssembling)
	assert.True(t, shared.IsConflict(err))

	stored, err := repo.FindByID(ctx, "wpn-1")
	require.NoError(t, err)
	assert.Equal(t, weapon.StatusReady, stored.Status())
	assert.True(t, stored.AllComponentsInstalled())

	_, err = repo.FindByID(ctx, "wpn-missing")
	assert.True(t, shared.IsNotFound(err))
}

func TestWeaponRepository_FindDueImpacts(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormWeaponRepository(db)
	ctx := context.Background()
	owner := shared.MustNewActorID("alice")
	spec := weapon.PayloadSpec{Type: "MISSILE", Components: []string{"warhead"}, FlightDuration: time.Minute}

	for i, flight := range []time.Duration{time.Minute, time.Hour} {
		w := weapon.NewWeapon([]string{"wpn-soon", "wpn-later"}[i], owner, spec, 0, epoch)
		_, err := w.InstallComponent("warhead", owner, epoch)
		require.NoError(t, err)
		require.NoError(t, w.Launch(shared.MustNewActorID("bob"), owner, flight, epoch))
		require.NoError(t, repo.Add(ctx, w))
	}

	due, err := repo.FindDueImpacts(ctx, epoch.Add(2*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "wpn-soon", due[0].ID())
}

func TestResearchRepository_SaveDetectsStaleVersion(t *testing.T) {
	db := helpers.NewTestDB(t)
	catalog, err := research.NewCatalog([]research.TechDefinition{
		{ID: "A", Name: "A", Category: research.CategoryOffense, Cost: 10},
	})
	require.NoError(t, err)
	repo := persistence.NewGormResearchStateRepository(db, catalog, shared.NewMockClock(epoch))
	ctx := context.Background()
	id := shared.MustNewActorID("alice")

	first, err := repo.FindOrCreate(ctx, id)
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, first.Available())

	require.NoError(t, first.Start(catalog, "A", 10, research.Gates{}, 1, epoch))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Start(catalog, "A", 10, research.Gates{}, 1, epoch))
	assert.True(t, shared.IsConflict(repo.Save(ctx, second)))

	reloaded, err := repo.FindOrCreate(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, reloaded.InProgress())
	assert.Equal(t, 10, reloaded.InProgress().PointsRequired)
	assert.Equal(t, 1, reloaded.Version())
}

func TestMissionRepository_StartClaimsOperativeOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	operatives := persistence.NewGormOperativeRepository(db)
	missions := persistence.NewGormMissionRepository(db)
	ctx := context.Background()
	owner := shared.MustNewActorID("alice")
	target := shared.MustNewActorID("bob")

	spec := espionage.MissionTypeSpec{Type: "RECON", Duration: time.Hour, BaseSuccess: 0.5}
	op := espionage.NewOperative("op-1", owner, espionage.SpecializationSpec{Name: "INFILTRATOR", BaseSkill: 40}, epoch)
	require.NoError(t, operatives.Add(ctx, op))

	a, err := operatives.FindByID(ctx, "op-1")
	require.NoError(t, err)
	b, err := operatives.FindByID(ctx, "op-1")
	require.NoError(t, err)

	m1 := espionage.NewMission("msn-1", a, spec, target, epoch)
	require.NoError(t, a.Assign(m1.ID()))
	require.NoError(t, missions.Start(ctx, m1, a))

	m2 := espionage.NewMission("msn-2", b, spec, target, epoch)
	require.NoError(t, b.Assign(m2.ID()))
	err = missions.Start(ctx, m2, b)
	assert.ErrorIs(t, err, shared.ErrOperativeBusy)

	_, err = missions.FindByID(ctx, "msn-2")
	assert.True(t, shared.IsNotFound(err), "losing start must roll back the mission insert")

	active, err := missions.FindActiveTargeting(ctx, target)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	due, err := missions.FindDue(ctx, epoch.Add(2*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, due[0].Resolve(espionage.OutcomeSuccess, epoch.Add(2*time.Hour)))
	require.NoError(t, a.Release(due[0].ID(), 3))
	require.NoError(t, missions.Resolve(ctx, due[0], a))

	stored, err := operatives.FindByID(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, espionage.OperativeIdle, stored.Status())
	assert.Equal(t, 43, stored.Skill())

	// resolving the same mission again is a conflict
	assert.True(t, shared.IsConflict(missions.Resolve(ctx, due[0], a)))
}

func TestDefenseUnitRepository_DueQueries(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormDefenseUnitRepository(db)
	ctx := context.Background()
	owner := shared.MustNewActorID("alice")
	policy := defense.RepairPolicy{SecondsPerPoint: 6, CostPerPoint: 10, InterceptShare: 0.4, Cooldown: time.Minute}

	unit := defense.NewUnit("def-1", owner, epoch)
	unit.TakeDamage(50, policy, epoch)
	require.NoError(t, unit.StartRepair(policy, epoch))
	require.NoError(t, repo.Add(ctx, unit))

	due, err := repo.FindDueRepairs(ctx, epoch.Add(299*time.Second), 0)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = repo.FindDueRepairs(ctx, epoch.Add(300*time.Second), 0)
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, due[0].CompleteRepair(epoch.Add(300*time.Second)))
	require.NoError(t, repo.Update(ctx, due[0]))
	assert.True(t, shared.IsConflict(repo.Update(ctx, unit)))

	stored, err := repo.FindByID(ctx, "def-1")
	require.NoError(t, err)
	assert.Equal(t, defense.MaxHealth, stored.Health())
	assert.Equal(t, defense.StatusIdle, stored.Status())
}

func TestOperativeRepository_AddWithinCap(t *testing.T) {
	db := helpers.NewTestDB(t)
	operatives := persistence.NewGormOperativeRepository(db)
	actors := persistence.NewGormActorRepository(db, shared.NewMockClock(epoch))
	owner := seedActor(t, actors, "alice", 0, 0).ID
	ctx := context.Background()
	infiltrator := espionage.SpecializationSpec{Name: "INFILTRATOR", BaseSkill: 30}

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			op := espionage.NewOperative(fmt.Sprintf("op-%d", i), owner, infiltrator, epoch)
			results[i] = operatives.AddWithinCap(ctx, op, 3)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range results {
		if err == nil {
			accepted++
			continue
		}
		assert.Equal(t, shared.ReasonOperativeCapReached, shared.ReasonOf(err))
	}
	assert.Equal(t, 3, accepted)

	owned, err := operatives.CountByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, owned)

	ghost := espionage.NewOperative("op-ghost", shared.MustNewActorID("nobody"), infiltrator, epoch)
	assert.True(t, shared.IsNotFound(operatives.AddWithinCap(ctx, ghost, 3)))
}

func TestOperativeRepository_ClaimIdleBlocksStaleAssignment(t *testing.T) {
	db := helpers.NewTestDB(t)
	operatives := persistence.NewGormOperativeRepository(db)
	missions := persistence.NewGormMissionRepository(db)
	ctx := context.Background()
	owner := shared.MustNewActorID("alice")
	target := shared.MustNewActorID("bob")

	op := espionage.NewOperative("op-1", owner, espionage.SpecializationSpec{Name: "SABOTEUR", BaseSkill: 25}, epoch)
	require.NoError(t, operatives.Add(ctx, op))

	saboteur, err := operatives.FindByID(ctx, "op-1")
	require.NoError(t, err)
	planner, err := operatives.FindByID(ctx, "op-1")
	require.NoError(t, err)

	require.NoError(t, operatives.ClaimIdle(ctx, saboteur))

	spec := espionage.MissionTypeSpec{Type: "RECON", Duration: time.Hour, BaseSuccess: 0.5}
	m := espionage.NewMission("msn-1", planner, spec, target, epoch)
	require.NoError(t, planner.Assign(m.ID()))
	assert.ErrorIs(t, missions.Start(ctx, m, planner), shared.ErrOperativeBusy)

	// the claimed copy is current and can be claimed again
	require.NoError(t, operatives.ClaimIdle(ctx, saboteur))
	assert.ErrorIs(t, operatives.ClaimIdle(ctx, planner), shared.ErrOperativeBusy)
}
