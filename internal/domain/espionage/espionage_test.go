package espionage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

var (
	now   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner = shared.MustNewActorID("spymaster")
	enemy = shared.MustNewActorID("enemy")
)

var infiltrator = espionage.SpecializationSpec{Name: "INFILTRATOR", BaseSkill: 40, RecruitCost: 100}

var recon = espionage.MissionTypeSpec{
	Type:             "RECON",
	Duration:         30 * time.Minute,
	BaseSuccess:      0.5,
	DetectionBand:    0.2,
	RewardResources:  250,
	SkillGain:        3,
	DetectionPenalty: 5,
	Preferred:        "INFILTRATOR",
}

func TestOperative_BusyWhileOnMission(t *testing.T) {
	op := espionage.NewOperative("op-1", owner, infiltrator, now)
	require.NoError(t, op.Assign("m-1"))

	err := op.Assign("m-2")
	assert.ErrorIs(t, err, shared.ErrOperativeBusy)
	assert.Equal(t, "m-1", op.ActiveMissionID())

	require.NoError(t, op.Release("m-1", 3))
	assert.Equal(t, espionage.OperativeIdle, op.Status())
	assert.Equal(t, 43, op.Skill())
	assert.Equal(t, 1, op.MissionsCompleted())
	assert.NoError(t, op.Assign("m-2"))
}

func TestOperative_SkillIsClamped(t *testing.T) {
	op := espionage.NewOperative("op-1", owner, espionage.SpecializationSpec{Name: "X", BaseSkill: 99}, now)
	require.NoError(t, op.Assign("m-1"))
	require.NoError(t, op.Release("m-1", 10))
	assert.Equal(t, espionage.MaxSkill, op.Skill())

	require.NoError(t, op.Assign("m-2"))
	require.NoError(t, op.Release("m-2", -500))
	assert.Equal(t, espionage.MinSkill, op.Skill())
}

func TestMission_CompletionChecks(t *testing.T) {
	op := espionage.NewOperative("op-1", owner, infiltrator, now)
	m := espionage.NewMission("m-1", op, recon, enemy, now)

	assert.Equal(t, now.Add(30*time.Minute), m.CompletesAt())
	assert.Equal(t, shared.ReasonMissionNotDue, shared.ReasonOf(m.CheckCompletable(owner, now)))
	assert.Equal(t, shared.ReasonNotOwner, shared.ReasonOf(m.CheckCompletable(enemy, now.Add(time.Hour))))
	assert.NoError(t, m.CheckCompletable(owner, now.Add(30*time.Minute)))
	assert.True(t, m.IsDue(now.Add(30*time.Minute)))

	require.NoError(t, m.Resolve(espionage.OutcomeDetected, now.Add(time.Hour)))
	assert.Equal(t, espionage.MissionFailed, m.Status())
	assert.ErrorIs(t, m.Resolve(espionage.OutcomeSuccess, now), shared.ErrWrongStatus)
	assert.False(t, m.IsDue(now.Add(time.Hour)))
}

func TestResolveOutcome_Bands(t *testing.T) {
	op := espionage.NewOperative("op-1", owner, infiltrator, now)

	// 0.5 base + (40-40)/200 + 0.1 preferred specialization
	chance := espionage.SuccessChance(op, recon, 40)
	assert.InDelta(t, 0.6, chance, 1e-9)

	success := espionage.ResolveOutcome(op, recon, 40, 0.1)
	assert.Equal(t, espionage.OutcomeSuccess, success.Outcome)
	assert.Equal(t, 250, success.RewardResources)
	assert.Equal(t, 3, success.SkillDelta)

	detected := espionage.ResolveOutcome(op, recon, 40, 0.7)
	assert.Equal(t, espionage.OutcomeDetected, detected.Outcome)
	assert.Equal(t, -5, detected.SkillDelta)
	assert.Zero(t, detected.RewardResources)

	failure := espionage.ResolveOutcome(op, recon, 40, 0.85)
	assert.Equal(t, espionage.OutcomeFailure, failure.Outcome)
	assert.Zero(t, failure.SkillDelta)
}

func TestSuccessChance_IsBounded(t *testing.T) {
	op := espionage.NewOperative("op-1", owner, espionage.SpecializationSpec{Name: "X", BaseSkill: 1}, now)
	assert.Equal(t, 0.05, espionage.SuccessChance(op, recon, 100))

	strong := espionage.NewOperative("op-2", owner, espionage.SpecializationSpec{Name: "INFILTRATOR", BaseSkill: 100}, now)
	assert.Equal(t, 0.95, espionage.SuccessChance(strong, recon, 0))
}

func TestSabotageDamage(t *testing.T) {
	assert.Equal(t, 50, espionage.SabotageDamage(40, 1.5, 10))
	assert.Equal(t, 0, espionage.SabotageDamage(10, 1.5, 80))
}

func TestSweep_RevealsByRelativeSkill(t *testing.T) {
	sweeper := espionage.NewOperative("op-1", owner, espionage.SpecializationSpec{Name: "X", BaseSkill: 60}, now)
	weak := espionage.NewOperative("h-1", enemy, espionage.SpecializationSpec{Name: "X", BaseSkill: 20}, now)
	strong := espionage.NewOperative("h-2", enemy, espionage.SpecializationSpec{Name: "X", BaseSkill: 90}, now)

	hostile := []espionage.HostileActivity{
		{Mission: espionage.NewMission("hm-1", weak, recon, owner, now), Operative: weak},
		{Mission: espionage.NewMission("hm-2", strong, recon, owner, now), Operative: strong},
	}

	// reveal chances: 60/80 = 0.75 and 60/150 = 0.4
	rolls := shared.NewSequenceRandom(0.5, 0.5)
	revealed := espionage.Sweep(sweeper, hostile, rolls.Float64)

	require.Len(t, revealed, 1)
	assert.Equal(t, "hm-1", revealed[0].Mission.ID())
}

func TestNewCatalog_Validation(t *testing.T) {
	_, err := espionage.NewCatalog(nil, []espionage.MissionTypeSpec{recon})
	assert.ErrorContains(t, err, "unknown preferred specialization")

	bad := recon
	bad.BaseSuccess = 0.9
	_, err = espionage.NewCatalog([]espionage.SpecializationSpec{infiltrator}, []espionage.MissionTypeSpec{bad})
	assert.ErrorContains(t, err, "must fit within")

	catalog, err := espionage.NewCatalog([]espionage.SpecializationSpec{infiltrator}, []espionage.MissionTypeSpec{recon})
	require.NoError(t, err)
	_, ok := catalog.Mission("RECON")
	assert.True(t, ok)
}
