package research

import (
	"context"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// ResearchStateRepository persists one ResearchState per actor
type ResearchStateRepository interface {
	// FindOrCreate loads the actor's state, creating an empty one on first access
	FindOrCreate(ctx context.Context, actorID shared.ActorID) (*ResearchState, error)

	// Save writes the state only if the stored version still matches; CONFLICT otherwise
	Save(ctx context.Context, state *ResearchState) error
}

// GateProvider looks up the levels a tech's gates are checked against
type GateProvider interface {
	GatesFor(ctx context.Context, actorID shared.ActorID) (Gates, error)
}
