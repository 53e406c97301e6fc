package auth

import (
	"context"
	"reflect"

	"github.com/fame0528/DarkFrame-sub009/internal/application/mediator"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// Context keys for passing the acting actor through context
type authContextKey int

const (
	actorKey authContextKey = iota + 1000 // Offset from logger keys
)

var actorIDType = reflect.TypeOf(shared.ActorID{})

// WithActor records the actor on whose behalf a request runs
func WithActor(ctx context.Context, id shared.ActorID) context.Context {
	return context.WithValue(ctx, actorKey, id)
}

// ActorFromContext returns the acting actor, if one was resolved
func ActorFromContext(ctx context.Context) (shared.ActorID, bool) {
	id, ok := ctx.Value(actorKey).(shared.ActorID)
	return id, ok && !id.IsZero()
}

// ActorMiddleware verifies that the actor named by a request's ActorID field
// exists before the handler runs, and injects it into the context. Requests
// without that field (scheduler sweeps) pass straight through.
func ActorMiddleware(actors actor.ActorRepository) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		id, found := extractActorID(request)
		if !found {
			return next(ctx, request)
		}
		if id.IsZero() {
			return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "actor id is required")
		}

		if _, err := actors.FindByID(ctx, id); err != nil {
			return nil, err
		}

		return next(WithActor(ctx, id), request)
	}
}

// extractActorID uses reflection to read the ActorID field of a request
func extractActorID(request mediator.Request) (shared.ActorID, bool) {
	requestValue := reflect.ValueOf(request)
	if requestValue.Kind() == reflect.Ptr {
		if requestValue.IsNil() {
			return shared.ActorID{}, false
		}
		requestValue = requestValue.Elem()
	}

	if requestValue.Kind() != reflect.Struct {
		return shared.ActorID{}, false
	}

	field, found := requestValue.Type().FieldByName("ActorID")
	if !found || field.Type != actorIDType {
		return shared.ActorID{}, false
	}

	return requestValue.FieldByName("ActorID").Interface().(shared.ActorID), true
}
