package actor

import (
	"context"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// ActorRepository defines actor persistence operations
type ActorRepository interface {
	FindByID(ctx context.Context, id shared.ActorID) (*Actor, error)
	FindByGroup(ctx context.Context, groupID string) ([]*Actor, error)
	Add(ctx context.Context, actor *Actor) error
	UpdateProfile(ctx context.Context, actor *Actor) error
}
