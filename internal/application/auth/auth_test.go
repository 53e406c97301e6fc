package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/application/mediator"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

type stubActors map[string]*actor.Actor

func (s stubActors) FindByID(_ context.Context, id shared.ActorID) (*actor.Actor, error) {
	if a, ok := s[id.String()]; ok {
		return a, nil
	}
	return nil, shared.NewNotFoundError(shared.ReasonActorNotFound, "actor %s not found", id)
}
func (s stubActors) FindByGroup(context.Context, string) ([]*actor.Actor, error) { return nil, nil }
func (s stubActors) Add(context.Context, *actor.Actor) error                     { return nil }
func (s stubActors) UpdateProfile(context.Context, *actor.Actor) error           { return nil }

type actorCommand struct {
	ActorID shared.ActorID
}

type sweepCommand struct{}

func TestActorMiddleware(t *testing.T) {
	alice := shared.MustNewActorID("alice")
	mw := ActorMiddleware(stubActors{"alice": {ID: alice}})

	var seen shared.ActorID
	next := func(ctx context.Context, _ mediator.Request) (mediator.Response, error) {
		seen, _ = ActorFromContext(ctx)
		return "ok", nil
	}

	resp, err := mw(context.Background(), &actorCommand{ActorID: alice}, next)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.True(t, seen.Equals(alice))

	_, err = mw(context.Background(), &actorCommand{ActorID: shared.MustNewActorID("mallory")}, next)
	assert.True(t, shared.IsNotFound(err))

	_, err = mw(context.Background(), &actorCommand{}, next)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	seen = shared.ActorID{}
	_, err = mw(context.Background(), &sweepCommand{}, next)
	require.NoError(t, err)
	assert.True(t, seen.IsZero())
}
