package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

func TestNotificationStore_ListAndRetention(t *testing.T) {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormNotificationStore(db)
	ctx := context.Background()
	alice := shared.MustNewActorID("alice")
	bob := shared.MustNewActorID("bob")

	old := notification.NewActorEvent(notification.EventWeaponLaunched, notification.PriorityHigh,
		epoch, map[string]interface{}{"weapon_id": "wpn-1"}, alice, bob)
	recent := notification.NewActorEvent(notification.EventRepairCompleted, notification.PriorityNormal,
		epoch.Add(48*time.Hour), map[string]interface{}{"unit_id": "def-1"}, bob)
	global := notification.Event{
		ID:         "evt-global",
		Type:       notification.EventHostilesRevealed,
		Priority:   notification.PriorityLow,
		Scope:      notification.ScopeGlobal,
		OccurredAt: epoch.Add(time.Hour),
	}

	for _, e := range []notification.Event{old, recent, global} {
		require.NoError(t, store.Save(ctx, e))
	}
	// duplicate saves are ignored
	require.NoError(t, store.Save(ctx, old))

	forBob, err := store.ListForRecipient(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, forBob, 3)
	assert.Equal(t, recent.ID, forBob[0].ID)
	assert.Equal(t, "def-1", forBob[0].Payload["unit_id"])

	forAlice, err := store.ListForRecipient(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, forAlice, 2)

	deleted, err := store.DeleteOlderThan(ctx, epoch.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	forAlice, err = store.ListForRecipient(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, forAlice)
}
