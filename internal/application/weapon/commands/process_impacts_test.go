package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/commands"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

type brokenEffects struct{ calls int }

func (b *brokenEffects) ApplyImpact(ctx context.Context, impact weapon.Impact) (weapon.ImpactEffect, error) {
	b.calls++
	return weapon.ImpactEffect{}, errors.New("defense store unavailable")
}

type discardEmitter struct{ events []notification.Event }

func (d *discardEmitter) Emit(events ...notification.Event) { d.events = append(d.events, events...) }

func TestProcessImpacts_EffectFailureStillCountsAsLanded(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormWeaponRepository(db)
	ctx := context.Background()
	owner := shared.MustNewActorID("alpha")
	target := shared.MustNewActorID("bravo")

	spec := weapon.PayloadSpec{Type: "MISSILE", Name: "Missile", Components: []string{"warhead"}, FlightDuration: time.Minute, MaxRange: 100, Damage: 30}
	payloads, err := weapon.NewPayloadCatalog([]weapon.PayloadSpec{spec})
	require.NoError(t, err)

	w := weapon.NewWeapon("wpn-1", owner, spec, 0, helpers.TestEpoch)
	_, err = w.InstallComponent("warhead", owner, helpers.TestEpoch)
	require.NoError(t, err)
	require.NoError(t, w.Launch(target, owner, time.Minute, helpers.TestEpoch))
	require.NoError(t, repo.Add(ctx, w))

	effects := &brokenEffects{}
	emitter := &discardEmitter{}
	clock := shared.NewMockClock(helpers.TestEpoch.Add(2 * time.Minute))
	handler := commands.NewProcessImpactsHandler(repo, payloads, effects, emitter, clock)

	resp, err := handler.Handle(ctx, &commands.ProcessImpactsCommand{})
	require.Error(t, err, "effect failures still surface so the job records an error")
	assert.Contains(t, err.Error(), "defense store unavailable")

	summary := resp.(*commands.ProcessImpactsResponse)
	assert.Equal(t, 1, summary.Due)
	assert.Equal(t, 1, summary.Impacted)
	assert.Equal(t, 1, summary.EffectFailed)
	assert.Zero(t, summary.Failed)

	stored, err := repo.FindByID(ctx, "wpn-1")
	require.NoError(t, err)
	assert.Equal(t, weapon.StatusImpacted, stored.Status())
	assert.Len(t, emitter.events, 2)

	// the committed transition means a second sweep finds nothing to land
	resp, err = handler.Handle(ctx, &commands.ProcessImpactsCommand{})
	require.NoError(t, err)
	assert.Zero(t, resp.(*commands.ProcessImpactsResponse).Due)
	assert.Equal(t, 1, effects.calls)
}
