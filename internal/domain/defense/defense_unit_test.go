package defense_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

var (
	now    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner  = shared.MustNewActorID("owner")
	policy = defense.RepairPolicy{SecondsPerPoint: 6, CostPerPoint: 10, InterceptShare: 0.4, Cooldown: 2 * time.Minute}
)

func TestTakeDamage_IdleUnitBecomesDamaged(t *testing.T) {
	u := defense.NewUnit("def-1", owner, now)

	result := u.TakeDamage(30, policy, now)

	assert.False(t, result.Intercepted)
	assert.Equal(t, 30, result.Taken)
	assert.Equal(t, 70, u.Health())
	assert.Equal(t, defense.StatusDamaged, u.Status())
}

func TestTakeDamage_ActiveUnitIntercepts(t *testing.T) {
	u := defense.NewUnit("def-1", owner, now)
	require.NoError(t, u.Activate(now))

	result := u.TakeDamage(50, policy, now)

	assert.True(t, result.Intercepted)
	assert.Equal(t, 20, result.Absorbed)
	assert.Equal(t, 30, result.Taken)
	assert.Equal(t, defense.StatusDamaged, u.Status(), "damage overrides cooldown")
}

func TestTakeDamage_FullInterceptLeavesCooldown(t *testing.T) {
	u := defense.NewUnit("def-1", owner, now)
	require.NoError(t, u.Activate(now))
	full := policy
	full.InterceptShare = 1

	result := u.TakeDamage(50, full, now)

	assert.Equal(t, 0, result.Taken)
	assert.Equal(t, defense.StatusCooldown, u.Status())
	assert.False(t, u.IsCooldownOver(now.Add(time.Minute)))
	assert.True(t, u.IsCooldownOver(now.Add(2*time.Minute)))

	require.NoError(t, u.EndCooldown(now.Add(2*time.Minute)))
	assert.Equal(t, defense.StatusActive, u.Status())
	assert.Nil(t, u.CooldownUntil())
}

func TestTakeDamage_HealthFloorsAtZero(t *testing.T) {
	u := defense.NewUnit("def-1", owner, now)
	result := u.TakeDamage(250, policy, now)
	assert.Equal(t, 100, result.Taken)
	assert.Equal(t, 0, u.Health())
}

func TestRepairLifecycle(t *testing.T) {
	u := defense.NewUnit("def-1", owner, now)

	assert.Equal(t, shared.ReasonNotDamaged, shared.ReasonOf(u.StartRepair(policy, now)))

	u.TakeDamage(40, policy, now)
	assert.Equal(t, 400, u.RepairCost(policy))
	require.NoError(t, u.StartRepair(policy, now))

	assert.True(t, u.Repairing())
	assert.NotEqual(t, defense.StatusIdle, u.Status())
	require.NotNil(t, u.RepairCompletesAt())
	assert.Equal(t, now.Add(240*time.Second), *u.RepairCompletesAt())
	assert.True(t, u.RepairCompletesAt().After(*u.RepairStartedAt()))
	assert.Equal(t, shared.ReasonAlreadyRepairing, shared.ReasonOf(u.StartRepair(policy, now)))

	u.TakeDamage(10, policy, now)
	assert.Equal(t, defense.StatusDamaged, u.Status())
	assert.True(t, u.Repairing())

	assert.False(t, u.IsRepairDue(now.Add(time.Minute)))
	assert.True(t, u.IsRepairDue(now.Add(240*time.Second)))

	require.NoError(t, u.CompleteRepair(now.Add(240*time.Second)))
	assert.Equal(t, defense.MaxHealth, u.Health())
	assert.Equal(t, defense.StatusIdle, u.Status())
	assert.False(t, u.Repairing())
	assert.Nil(t, u.RepairCompletesAt())
}

func TestActivateAndStandDown(t *testing.T) {
	u := defense.NewUnit("def-1", owner, now)
	require.NoError(t, u.Activate(now))
	assert.ErrorIs(t, u.Activate(now), shared.ErrWrongStatus)
	require.NoError(t, u.StandDown(now))
	assert.Equal(t, defense.StatusIdle, u.Status())
	assert.ErrorIs(t, u.StandDown(now), shared.ErrWrongStatus)
}
