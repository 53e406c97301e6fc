package shared_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

func TestNewActorID(t *testing.T) {
	id, err := shared.NewActorID("  alpha ")
	require.NoError(t, err)
	assert.Equal(t, "alpha", id.String())
	assert.True(t, id.Equals(shared.MustNewActorID("alpha")))

	_, err = shared.NewActorID("   ")
	assert.Equal(t, shared.ReasonInvalidArgument, shared.ReasonOf(err))

	_, err = shared.NewActorID(strings.Repeat("x", 65))
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	assert.True(t, shared.ActorID{}.IsZero())
}

func TestDomainError_MatchesSentinelByReason(t *testing.T) {
	err := shared.NewPreconditionError(shared.ReasonOperativeBusy, "operative %s is on mission %s", "op-1", "m-1")
	wrapped := fmt.Errorf("failed to start mission: %w", err)

	assert.True(t, errors.Is(wrapped, shared.ErrOperativeBusy))
	assert.False(t, errors.Is(wrapped, shared.ErrWrongStatus))
	assert.Equal(t, "OPERATIVE_BUSY: operative op-1 is on mission m-1", err.Error())
	assert.Equal(t, shared.KindPrecondition, shared.KindOf(wrapped))
}

func TestJobFaultError_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := shared.NewJobFaultError("weapon_impacts", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "JOB_FAILED: job weapon_impacts: boom", err.Error())
	assert.Equal(t, shared.ErrorKind(""), shared.KindOf(cause))
}

func TestConflictError(t *testing.T) {
	err := shared.NewConflictError("weapon", "w-1")

	assert.True(t, shared.IsConflict(err))
	assert.False(t, shared.IsNotFound(err))
	assert.Equal(t, "w-1", err.Details["id"])
}

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)
	deadline := start.Add(10 * time.Minute)

	assert.Equal(t, 10*time.Minute, shared.Until(clock, deadline))
	assert.Equal(t, start.Add(4*time.Minute), clock.Advance(4*time.Minute))
	assert.Equal(t, 6*time.Minute, shared.Until(clock, deadline))

	clock.SetTime(deadline.Add(time.Second))
	assert.Equal(t, time.Duration(0), shared.Until(clock, deadline))
}

func TestSequenceRandom_CyclesAndResets(t *testing.T) {
	r := shared.NewSequenceRandom(0.1, 0.9)
	assert.Equal(t, []float64{0.1, 0.9, 0.1}, []float64{r.Float64(), r.Float64(), r.Float64()})

	r.Reset(0.5)
	assert.Equal(t, 0.5, r.Float64())
	assert.Equal(t, 0.5, r.Float64())

	assert.Equal(t, 0.0, shared.NewSequenceRandom().Float64())
}

func TestRandomSource_IsSeeded(t *testing.T) {
	a := shared.NewRandomSource(42)
	b := shared.NewRandomSource(42)
	for i := 0; i < 5; i++ {
		v := a.Float64()
		assert.Equal(t, v, b.Float64())
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
