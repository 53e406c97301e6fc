package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedActor(t *testing.T, repo *persistence.GormActorRepository, id string, points, resources int) *actor.Actor {
	t.Helper()
	a := actor.NewActor(shared.MustNewActorID(id), "", epoch)
	a.ResearchPoints = points
	a.Resources = resources
	require.NoError(t, repo.Add(context.Background(), a))
	return a
}

func TestActorRepository_DebitWritesEntry(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormActorRepository(db, shared.NewMockClock(epoch))
	ctx := context.Background()
	a := seedActor(t, repo, "alice", 100, 0)

	entry, err := repo.Debit(ctx, ledger.Movement{
		ActorID:   a.ID,
		Currency:  ledger.CurrencyResearchPoints,
		EntryType: ledger.EntryTypeResearchSpend,
		Amount:    40,
		Reference: "tech:A",
	})
	require.NoError(t, err)
	assert.Equal(t, -40, entry.Amount())
	assert.Equal(t, 60, entry.BalanceAfter())

	balance, err := repo.Balance(ctx, a.ID, ledger.CurrencyResearchPoints)
	require.NoError(t, err)
	assert.Equal(t, 60, balance)

	entries, err := repo.FindByActor(ctx, a.ID, ledger.DefaultQueryOptions())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tech:A", entries[0].Reference())
}

func TestActorRepository_DebitNeverOverdraws(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormActorRepository(db, nil)
	ctx := context.Background()
	a := seedActor(t, repo, "bob", 0, 30)

	_, err := repo.Debit(ctx, ledger.Movement{
		ActorID:   a.ID,
		Currency:  ledger.CurrencyResources,
		EntryType: ledger.EntryTypeWeaponReserve,
		Amount:    31,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientResources)
	assert.Equal(t, shared.KindPrecondition, shared.KindOf(err))

	balance, err := repo.Balance(ctx, a.ID, ledger.CurrencyResources)
	require.NoError(t, err)
	assert.Equal(t, 30, balance)

	entries, err := repo.FindByActor(ctx, a.ID, ledger.DefaultQueryOptions())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestActorRepository_CreditUnknownActor(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormActorRepository(db, nil)

	_, err := repo.Credit(context.Background(), ledger.Movement{
		ActorID:   shared.MustNewActorID("ghost"),
		Currency:  ledger.CurrencyResources,
		EntryType: ledger.EntryTypeGrant,
		Amount:    10,
	})
	assert.True(t, shared.IsNotFound(err))
}

func TestActorRepository_ProfileAndGates(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormActorRepository(db, nil)
	ctx := context.Background()

	a := seedActor(t, repo, "carol", 0, 0)
	a.Level = 7
	a.GroupID = "north"
	a.GroupLevel = 3
	a.Position = actor.Position{X: 3, Y: 4}
	require.NoError(t, repo.UpdateProfile(ctx, a))

	profile, err := repo.Profile(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, 5.0, profile.Position.DistanceTo(actor.Position{}))

	gates, err := repo.GatesFor(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, gates.ActorLevel)
	assert.Equal(t, 3, gates.GroupLevel)

	missing, err := repo.Profile(ctx, shared.MustNewActorID("nobody"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	members, err := repo.FindByGroup(ctx, "north")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}
