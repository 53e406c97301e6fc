package weapon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

var (
	now   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner = shared.MustNewActorID("owner")
	enemy = shared.MustNewActorID("enemy")
)

func missileSpec() weapon.PayloadSpec {
	return weapon.PayloadSpec{
		Type:           "MISSILE",
		Components:     []string{"warhead", "guidance"},
		FlightDuration: 10 * time.Minute,
		MaxRange:       100,
		Damage:         40,
		Cost:           500,
	}
}

func TestInstallComponent_LastComponentMakesReady(t *testing.T) {
	w := weapon.NewWeapon("wpn-1", owner, missileSpec(), 500, now)

	ready, err := w.InstallComponent("warhead", owner, now)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, weapon.StatusAssembling, w.Status())
	assert.Equal(t, []string{"guidance"}, w.MissingComponents())

	ready, err = w.InstallComponent("guidance", owner, now)
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, weapon.StatusReady, w.Status())
}

func TestInstallComponent_Failures(t *testing.T) {
	w := weapon.NewWeapon("wpn-1", owner, missileSpec(), 0, now)

	_, err := w.InstallComponent("warhead", enemy, now)
	assert.Equal(t, shared.ReasonNotOwner, shared.ReasonOf(err))

	_, err = w.InstallComponent("thrusters", owner, now)
	assert.Equal(t, shared.ReasonInvalidComponent, shared.ReasonOf(err))

	_, err = w.InstallComponent("warhead", owner, now)
	require.NoError(t, err)
	_, err = w.InstallComponent("warhead", owner, now)
	assert.Equal(t, shared.ReasonAlreadyInstalled, shared.ReasonOf(err))
}

func TestLaunch_RequiresEveryComponent(t *testing.T) {
	w := weapon.NewWeapon("wpn-1", owner, missileSpec(), 0, now)
	_, err := w.InstallComponent("warhead", owner, now)
	require.NoError(t, err)

	err = w.Launch(enemy, owner, 10*time.Minute, now)

	assert.ErrorIs(t, err, shared.ErrWrongStatus)
	assert.Equal(t, weapon.StatusAssembling, w.Status())
	assert.Nil(t, w.LaunchedAt())
	assert.True(t, w.TargetID().IsZero())
}

func TestLaunch_SetsTimestamps(t *testing.T) {
	w := readyWeapon(t)

	require.NoError(t, w.Launch(enemy, owner, 10*time.Minute, now))

	assert.Equal(t, weapon.StatusLaunched, w.Status())
	assert.Equal(t, enemy, w.TargetID())
	require.NotNil(t, w.ImpactAt())
	assert.Equal(t, now.Add(10*time.Minute), *w.ImpactAt())
	assert.True(t, w.ImpactAt().After(*w.LaunchedAt()))
	assert.False(t, w.IsDue(now))
	assert.True(t, w.IsDue(now.Add(10*time.Minute)))
}

func TestDismantle(t *testing.T) {
	t.Run("releases reserved resources before launch", func(t *testing.T) {
		w := weapon.NewWeapon("wpn-1", owner, missileSpec(), 500, now)
		released, err := w.Dismantle(owner, now)
		require.NoError(t, err)
		assert.Equal(t, 500, released)
		assert.Equal(t, weapon.StatusDismantled, w.Status())
		assert.Equal(t, 0, w.ReservedResources())
	})

	t.Run("cannot recall a launched weapon", func(t *testing.T) {
		w := readyWeapon(t)
		require.NoError(t, w.Launch(enemy, owner, time.Minute, now))
		_, err := w.Dismantle(owner, now)
		assert.ErrorIs(t, err, shared.ErrWrongStatus)
		assert.Equal(t, weapon.StatusLaunched, w.Status())
	})

	t.Run("cannot dismantle twice", func(t *testing.T) {
		w := weapon.NewWeapon("wpn-1", owner, missileSpec(), 0, now)
		_, err := w.Dismantle(owner, now)
		require.NoError(t, err)
		_, err = w.Dismantle(owner, now)
		assert.ErrorIs(t, err, shared.ErrWrongStatus)
	})
}

func TestMarkImpacted_OnlyFromLaunched(t *testing.T) {
	w := readyWeapon(t)
	assert.ErrorIs(t, w.MarkImpacted(now), shared.ErrWrongStatus)

	require.NoError(t, w.Launch(enemy, owner, time.Minute, now))
	require.NoError(t, w.MarkImpacted(now.Add(time.Minute)))
	assert.Equal(t, weapon.StatusImpacted, w.Status())
	assert.ErrorIs(t, w.MarkImpacted(now.Add(time.Minute)), shared.ErrWrongStatus)
}

func TestCanTransition_NeverGoesBackwards(t *testing.T) {
	assert.False(t, weapon.CanTransition(weapon.StatusReady, weapon.StatusAssembling))
	assert.False(t, weapon.CanTransition(weapon.StatusLaunched, weapon.StatusDismantled))
	assert.False(t, weapon.CanTransition(weapon.StatusImpacted, weapon.StatusLaunched))
	assert.True(t, weapon.StatusImpacted.IsTerminal())
	assert.True(t, weapon.StatusDismantled.IsTerminal())
}

func TestNewPayloadCatalog_Validation(t *testing.T) {
	spec := missileSpec()
	_, err := weapon.NewPayloadCatalog([]weapon.PayloadSpec{spec, spec})
	assert.ErrorContains(t, err, "duplicate payload type")

	broken := missileSpec()
	broken.Components = []string{"warhead", "warhead"}
	_, err = weapon.NewPayloadCatalog([]weapon.PayloadSpec{broken})
	assert.ErrorContains(t, err, "duplicate component")

	catalog, err := weapon.NewPayloadCatalog([]weapon.PayloadSpec{missileSpec()})
	require.NoError(t, err)
	assert.Equal(t, 100.0, catalog.RangeTable()["MISSILE"])
}

func readyWeapon(t *testing.T) *weapon.Weapon {
	t.Helper()
	w := weapon.NewWeapon("wpn-1", owner, missileSpec(), 0, now)
	for _, c := range missileSpec().Components {
		_, err := w.InstallComponent(c, owner, now)
		require.NoError(t, err)
	}
	return w
}
