package research_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func abCatalog(t *testing.T) *research.Catalog {
	t.Helper()
	catalog, err := research.NewCatalog([]research.TechDefinition{
		{ID: "A", Name: "Alpha", Cost: 100},
		{ID: "B", Name: "Beta", Cost: 200, Prerequisites: []string{"A"}},
	})
	require.NoError(t, err)
	return catalog
}

func TestCanStart_PrerequisiteScenario(t *testing.T) {
	catalog := abCatalog(t)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)

	err := state.CanStart(catalog, "B", 1000, research.Gates{})
	assert.Equal(t, shared.ReasonPrerequisiteUnmet, shared.ReasonOf(err))

	require.NoError(t, state.Start(catalog, "A", 1000, research.Gates{}, 1.0, now))
	result, err := state.ApplyPoints(catalog, 100, now)
	require.NoError(t, err)
	assert.True(t, result.Completed)

	assert.NoError(t, state.CanStart(catalog, "B", 1000, research.Gates{}))
}

func TestCanStart_FailureReasons(t *testing.T) {
	catalog, err := research.NewCatalog([]research.TechDefinition{
		{ID: "A", Cost: 100},
		{ID: "G", Cost: 50, MinActorLevel: 5},
		{ID: "H", Cost: 50, MinGroupLevel: 2},
	})
	require.NoError(t, err)

	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)

	assert.Equal(t, shared.ReasonUnknownTech, shared.ReasonOf(state.CanStart(catalog, "nope", 0, research.Gates{})))
	assert.Equal(t, shared.KindValidation, shared.KindOf(state.CanStart(catalog, "nope", 0, research.Gates{})))
	assert.Equal(t, shared.ReasonInsufficientPoints, shared.ReasonOf(state.CanStart(catalog, "A", 99, research.Gates{})))
	assert.Equal(t, shared.ReasonActorLevelTooLow, shared.ReasonOf(state.CanStart(catalog, "G", 500, research.Gates{ActorLevel: 4})))
	assert.Equal(t, shared.ReasonGroupLevelTooLow, shared.ReasonOf(state.CanStart(catalog, "H", 500, research.Gates{ActorLevel: 9, GroupLevel: 1})))

	require.NoError(t, state.Start(catalog, "A", 100, research.Gates{}, 1.0, now))
	assert.Equal(t, shared.ReasonAlreadyInProgress, shared.ReasonOf(state.CanStart(catalog, "A", 100, research.Gates{})))

	_, err = state.ApplyPoints(catalog, 100, now)
	require.NoError(t, err)
	assert.Equal(t, shared.ReasonAlreadyCompleted, shared.ReasonOf(state.CanStart(catalog, "A", 100, research.Gates{})))
}

func TestStart_ConcurrentResearchLeavesOriginalUntouched(t *testing.T) {
	catalog, err := research.NewCatalog([]research.TechDefinition{
		{ID: "A", Cost: 100},
		{ID: "C", Cost: 100},
	})
	require.NoError(t, err)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)

	require.NoError(t, state.Start(catalog, "A", 1000, research.Gates{}, 1.0, now))
	_, err = state.ApplyPoints(catalog, 40, now)
	require.NoError(t, err)
	before := state.InProgress()

	err = state.Start(catalog, "C", 1000, research.Gates{}, 1.0, now.Add(time.Minute))

	assert.ErrorIs(t, err, shared.ErrConcurrentResearchActive)
	assert.Equal(t, before, state.InProgress())
}

func TestStart_AppliesMultiplier(t *testing.T) {
	catalog := abCatalog(t)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)

	require.NoError(t, state.Start(catalog, "A", 100, research.Gates{}, 0.75, now))

	progress := state.InProgress()
	require.NotNil(t, progress)
	assert.Equal(t, 75, progress.PointsRequired)
	assert.Equal(t, now, progress.StartedAt)
}

func TestStart_RejectsInvalidMultiplier(t *testing.T) {
	catalog := abCatalog(t)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)

	for _, m := range []float64{0, -1, 1.5} {
		err := state.Start(catalog, "A", 100, research.Gates{}, m, now)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err), "multiplier %v", m)
	}
	assert.Nil(t, state.InProgress())
}

func TestApplyPoints_PartialThenComplete(t *testing.T) {
	catalog := abCatalog(t)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)
	require.NoError(t, state.Start(catalog, "A", 100, research.Gates{}, 1.0, now))

	result, err := state.ApplyPoints(catalog, 60, now)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, 40, result.PointsRemaining)

	result, err = state.ApplyPoints(catalog, 500, now)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 40, result.PointsApplied, "excess points are not absorbed")
	assert.Equal(t, 100, state.TotalPointsSpent())
	assert.Nil(t, state.InProgress())
	assert.Equal(t, []string{"A"}, state.Completed())
	assert.Equal(t, []string{"B"}, state.Available())
	assert.Empty(t, state.Locked())
}

func TestApplyPoints_Failures(t *testing.T) {
	catalog := abCatalog(t)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)

	_, err := state.ApplyPoints(catalog, 10, now)
	assert.Equal(t, shared.ReasonNoActiveResearch, shared.ReasonOf(err))

	require.NoError(t, state.Start(catalog, "A", 100, research.Gates{}, 1.0, now))
	_, err = state.ApplyPoints(catalog, 0, now)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestCancel_DoesNotRefund(t *testing.T) {
	catalog := abCatalog(t)
	state := research.NewResearchState(shared.MustNewActorID("actor-1"), catalog, now)
	require.NoError(t, state.Start(catalog, "A", 100, research.Gates{}, 1.0, now))
	_, err := state.ApplyPoints(catalog, 30, now)
	require.NoError(t, err)

	cancelled, err := state.Cancel(now)
	require.NoError(t, err)

	assert.Equal(t, 30, cancelled.PointsSpent)
	assert.Nil(t, state.InProgress())
	assert.Equal(t, 30, state.TotalPointsSpent())

	_, err = state.Cancel(now)
	assert.Equal(t, shared.ReasonNoActiveResearch, shared.ReasonOf(err))
}

func TestReconstructResearchState_RecomputesDerivedSets(t *testing.T) {
	catalog := abCatalog(t)

	state := research.ReconstructResearchState(
		shared.MustNewActorID("actor-1"), []string{"A"}, nil, 100, 3, now, catalog)

	assert.Equal(t, []string{"B"}, state.Available())
	assert.Empty(t, state.Locked())
	assert.Equal(t, 3, state.Version())
	state.MarkPersisted()
	assert.Equal(t, 4, state.Version())
}

// Property: for random DAGs and random completion histories, available and
// locked partition catalog minus completed.
func TestRecompute_PartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		size := 1 + rng.Intn(25)
		defs := make([]research.TechDefinition, size)
		for i := range defs {
			defs[i] = research.TechDefinition{ID: fmt.Sprintf("T%d", i), Cost: 1 + rng.Intn(10)}
			for j := 0; j < i; j++ {
				if rng.Float64() < 0.2 {
					defs[i].Prerequisites = append(defs[i].Prerequisites, fmt.Sprintf("T%d", j))
				}
			}
		}
		rng.Shuffle(len(defs), func(i, j int) { defs[i], defs[j] = defs[j], defs[i] })

		catalog, err := research.NewCatalog(defs)
		require.NoError(t, err)

		state := research.NewResearchState(shared.MustNewActorID("actor"), catalog, now)
		for steps := 0; steps < size; steps++ {
			available := state.Available()
			if len(available) == 0 {
				break
			}
			pick := available[rng.Intn(len(available))]
			require.NoError(t, state.Start(catalog, pick, 1<<20, research.Gates{}, 1.0, now))
			_, err := state.ApplyPoints(catalog, 1<<20, now)
			require.NoError(t, err)

			assertPartition(t, catalog, state)
		}
	}
}

func assertPartition(t *testing.T, catalog *research.Catalog, state *research.ResearchState) {
	t.Helper()
	seen := make(map[string]string)
	for _, id := range state.Available() {
		assert.False(t, state.IsCompleted(id), "completed tech %s listed as available", id)
		seen[id] = "available"
	}
	for _, id := range state.Locked() {
		assert.False(t, state.IsCompleted(id), "completed tech %s listed as locked", id)
		_, dup := seen[id]
		assert.False(t, dup, "tech %s is both available and locked", id)
		seen[id] = "locked"
	}
	assert.Equal(t, catalog.Len()-len(state.Completed()), len(seen))
}
