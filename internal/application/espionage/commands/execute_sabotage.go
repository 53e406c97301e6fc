package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// ExecuteSabotageCommand strikes a target's defenses immediately
type ExecuteSabotageCommand struct {
	ActorID     shared.ActorID
	OperativeID string
	TargetID    shared.ActorID
}

// ExecuteSabotageResponse reports the damage dealt
type ExecuteSabotageResponse struct {
	Damage   int
	UnitsHit int
}

// ExecuteSabotageHandler handles instantaneous sabotage
type ExecuteSabotageHandler struct {
	operatives espionage.OperativeRepository
	directory  espionage.TargetDirectory
	applier    espionage.SabotageApplier
	emitter    notification.Emitter
	clock      shared.Clock
	factor     float64
}

// NewExecuteSabotageHandler creates a new sabotage handler
func NewExecuteSabotageHandler(
	operatives espionage.OperativeRepository,
	directory espionage.TargetDirectory,
	applier espionage.SabotageApplier,
	emitter notification.Emitter,
	clock shared.Clock,
	factor float64,
) *ExecuteSabotageHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ExecuteSabotageHandler{
		operatives: operatives,
		directory:  directory,
		applier:    applier,
		emitter:    emitter,
		clock:      clock,
		factor:     factor,
	}
}

// Handle executes the sabotage command
func (h *ExecuteSabotageHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExecuteSabotageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	operative, err := h.operatives.FindByID(ctx, cmd.OperativeID)
	if err != nil {
		return nil, err
	}
	if err := operative.CheckOwner(cmd.ActorID); err != nil {
		return nil, err
	}
	if err := checkTarget(ctx, h.directory, cmd.ActorID, cmd.TargetID); err != nil {
		return nil, err
	}
	if err := operative.CheckIdle(); err != nil {
		return nil, err
	}
	// holds the operative for the duration of the strike: a StartMission
	// that loaded the old version fails its own claim
	if err := h.operatives.ClaimIdle(ctx, operative); err != nil {
		return nil, err
	}

	target, err := h.directory.Profile(ctx, cmd.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up target: %w", err)
	}

	now := h.clock.Now()
	damage := espionage.SabotageDamage(operative.Skill(), h.factor, target.Hardening)
	unitsHit := 0
	if damage > 0 {
		unitsHit, err = h.applier.ApplySabotage(ctx, cmd.TargetID, damage, now)
		if err != nil {
			return nil, fmt.Errorf("failed to apply sabotage: %w", err)
		}
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventSabotage, notification.PriorityHigh, now,
		map[string]interface{}{
			"damage":    damage,
			"units_hit": unitsHit,
		}, cmd.TargetID))
	batch.Add(notification.NewActorEvent(notification.EventSabotage, notification.PriorityNormal, now,
		map[string]interface{}{
			"operative_id": operative.ID(),
			"target":       cmd.TargetID.String(),
			"damage":       damage,
			"units_hit":    unitsHit,
		}, cmd.ActorID))
	batch.Flush(h.emitter)

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Sabotage executed", map[string]interface{}{
		"operative_id": operative.ID(),
		"target":       cmd.TargetID.String(),
		"damage":       damage,
		"units_hit":    unitsHit,
	})

	return &ExecuteSabotageResponse{Damage: damage, UnitsHit: unitsHit}, nil
}
