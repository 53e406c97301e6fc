package espionage

import (
	"context"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// OperativeRepository persists operatives. AddWithinCap counts and inserts
// under a lock on the owner, failing with OPERATIVE_CAP_REACHED when the
// owner already has cap operatives (cap <= 0 means unlimited). ClaimIdle
// bumps the version of an IDLE operative so a concurrent assignment loses
// its conditional update; a non-idle or stale operative is OPERATIVE_BUSY.
type OperativeRepository interface {
	Add(ctx context.Context, operative *Operative) error
	AddWithinCap(ctx context.Context, operative *Operative, cap int) error
	ClaimIdle(ctx context.Context, operative *Operative) error
	FindByID(ctx context.Context, id string) (*Operative, error)
	ListByOwner(ctx context.Context, owner shared.ActorID) ([]*Operative, error)
	CountByOwner(ctx context.Context, owner shared.ActorID) (int, error)
}

// MissionRepository persists missions. The two multi-record writes run in one
// transaction and use conditional updates on both rows, failing with CONFLICT
// (or OPERATIVE_BUSY when the operative was claimed first).
type MissionRepository interface {
	FindByID(ctx context.Context, id string) (*Mission, error)
	ListByOperative(ctx context.Context, operativeID string) ([]*Mission, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]*Mission, error)
	FindActiveTargeting(ctx context.Context, target shared.ActorID) ([]*Mission, error)

	// Start inserts the mission and moves the operative IDLE -> ON_MISSION
	Start(ctx context.Context, mission *Mission, operative *Operative) error

	// Resolve writes the resolved mission (expected ACTIVE) and the released operative
	Resolve(ctx context.Context, mission *Mission, operative *Operative) error
}

// TargetDirectory resolves a target's defensive profile. A missing actor is (nil, nil).
type TargetDirectory interface {
	Profile(ctx context.Context, id shared.ActorID) (*actor.Actor, error)
}

// SabotageApplier deals sabotage damage to the target's defense units and
// returns how many units were hit
type SabotageApplier interface {
	ApplySabotage(ctx context.Context, target shared.ActorID, damage int, at time.Time) (int, error)
}
