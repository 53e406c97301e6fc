package defense

import (
	"context"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// UnitRepository persists defense units. Update writes only when the stored
// version matches the loaded one, failing with CONFLICT otherwise.
type UnitRepository interface {
	Add(ctx context.Context, unit *Unit) error
	FindByID(ctx context.Context, id string) (*Unit, error)
	ListByOwner(ctx context.Context, owner shared.ActorID) ([]*Unit, error)
	ListByOwners(ctx context.Context, owners []shared.ActorID) ([]*Unit, error)
	FindDueRepairs(ctx context.Context, now time.Time, limit int) ([]*Unit, error)
	FindExpiredCooldowns(ctx context.Context, now time.Time, limit int) ([]*Unit, error)
	Update(ctx context.Context, unit *Unit) error
}
