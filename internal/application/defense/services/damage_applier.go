package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// DamageApplier is the target side of weapon impacts and sabotage. Every
// unit the target owns takes the hit; a payload with splash also hits the
// units of the target's group mates for the splash share.
type DamageApplier struct {
	units  defense.UnitRepository
	actors actor.ActorRepository
	policy defense.RepairPolicy
}

// NewDamageApplier creates a damage applier
func NewDamageApplier(units defense.UnitRepository, actors actor.ActorRepository, policy defense.RepairPolicy) *DamageApplier {
	return &DamageApplier{units: units, actors: actors, policy: policy}
}

// ApplyImpact implements weapon.EffectApplier
func (a *DamageApplier) ApplyImpact(ctx context.Context, impact weapon.Impact) (weapon.ImpactEffect, error) {
	var effect weapon.ImpactEffect

	if err := a.hitOwner(ctx, impact.Target, impact.Damage, impact.At, &effect); err != nil {
		return effect, err
	}

	splash := int(math.Round(float64(impact.Damage) * impact.Splash))
	if splash <= 0 {
		return effect, nil
	}

	mates, err := a.groupMates(ctx, impact.Target, impact.Launcher)
	if err != nil {
		return effect, err
	}
	for _, mate := range mates {
		if err := a.hitOwner(ctx, mate, splash, impact.At, &effect); err != nil {
			return effect, err
		}
	}
	return effect, nil
}

// ApplySabotage implements espionage.SabotageApplier
func (a *DamageApplier) ApplySabotage(ctx context.Context, target shared.ActorID, damage int, at time.Time) (int, error) {
	var effect weapon.ImpactEffect
	if err := a.hitOwner(ctx, target, damage, at, &effect); err != nil {
		return effect.UnitsHit, err
	}
	return effect.UnitsHit, nil
}

func (a *DamageApplier) hitOwner(ctx context.Context, owner shared.ActorID, damage int, at time.Time, effect *weapon.ImpactEffect) error {
	if damage <= 0 {
		return nil
	}
	units, err := a.units.ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to list defense units of %s: %w", owner, err)
	}
	for _, unit := range units {
		result, err := a.hitUnit(ctx, unit, damage, at)
		if err != nil {
			return err
		}
		effect.UnitsHit++
		effect.TotalDamage += result.Taken
		if result.Intercepted {
			effect.Intercepted++
		}
	}
	return nil
}

// hitUnit retries once against a fresh copy when a concurrent writer won the race
func (a *DamageApplier) hitUnit(ctx context.Context, unit *defense.Unit, damage int, at time.Time) (defense.DamageResult, error) {
	result := unit.TakeDamage(damage, a.policy, at)
	err := a.units.Update(ctx, unit)
	if err == nil || !shared.IsConflict(err) {
		return result, err
	}

	fresh, err := a.units.FindByID(ctx, unit.ID())
	if err != nil {
		return defense.DamageResult{}, err
	}
	result = fresh.TakeDamage(damage, a.policy, at)
	if err := a.units.Update(ctx, fresh); err != nil {
		return defense.DamageResult{}, err
	}
	return result, nil
}

// groupMates lists the target's group members other than the target and the launcher
func (a *DamageApplier) groupMates(ctx context.Context, target, launcher shared.ActorID) ([]shared.ActorID, error) {
	profile, err := a.actors.FindByID(ctx, target)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if profile.GroupID == "" {
		return nil, nil
	}

	members, err := a.actors.FindByGroup(ctx, profile.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group %s: %w", profile.GroupID, err)
	}
	mates := make([]shared.ActorID, 0, len(members))
	for _, m := range members {
		if m.ID.Equals(target) || m.ID.Equals(launcher) {
			continue
		}
		mates = append(mates, m.ID)
	}
	return mates, nil
}
