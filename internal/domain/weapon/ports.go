package weapon

import (
	"context"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// WeaponRepository persists weapons. Transition is the atomic conditional
// update: it writes only while the stored status and version match what the
// caller loaded, and fails with CONFLICT otherwise.
type WeaponRepository interface {
	Add(ctx context.Context, weapon *Weapon) error
	FindByID(ctx context.Context, id string) (*Weapon, error)
	ListByOwner(ctx context.Context, owner shared.ActorID) ([]*Weapon, error)
	FindDueImpacts(ctx context.Context, now time.Time, limit int) ([]*Weapon, error)
	Transition(ctx context.Context, weapon *Weapon, expected Status) error
}

// Impact is the effect request handed to the target side after a weapon lands
type Impact struct {
	WeaponID    string
	PayloadType PayloadType
	Launcher    shared.ActorID
	Target      shared.ActorID
	Damage      int
	Splash      float64
	At          time.Time
}

// ImpactEffect summarises what the target side applied
type ImpactEffect struct {
	UnitsHit    int
	Intercepted int
	TotalDamage int
}

// EffectApplier applies payload damage to the target. Owned by the defense side.
type EffectApplier interface {
	ApplyImpact(ctx context.Context, impact Impact) (ImpactEffect, error)
}
