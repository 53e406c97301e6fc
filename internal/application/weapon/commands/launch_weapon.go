package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/targeting"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// TargetValidator is the targeting check a launch must pass
type TargetValidator interface {
	Validate(ctx context.Context, launcherID, targetID shared.ActorID, payloadType weapon.PayloadType) (targeting.ValidationResult, error)
}

// LaunchWeaponCommand fires a READY weapon at a target
type LaunchWeaponCommand struct {
	ActorID  shared.ActorID
	WeaponID string
	TargetID shared.ActorID
}

// LaunchWeaponResponse carries the LAUNCHED weapon and its impact time
type LaunchWeaponResponse struct {
	Weapon dtos.WeaponDTO
}

// LaunchWeaponHandler validates the target and commits READY -> LAUNCHED
type LaunchWeaponHandler struct {
	weapons   weapon.WeaponRepository
	payloads  *weapon.PayloadCatalog
	validator TargetValidator
	emitter   notification.Emitter
	clock     shared.Clock
}

// NewLaunchWeaponHandler creates a new launch weapon handler
func NewLaunchWeaponHandler(
	weapons weapon.WeaponRepository,
	payloads *weapon.PayloadCatalog,
	validator TargetValidator,
	emitter notification.Emitter,
	clock shared.Clock,
) *LaunchWeaponHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &LaunchWeaponHandler{
		weapons:   weapons,
		payloads:  payloads,
		validator: validator,
		emitter:   emitter,
		clock:     clock,
	}
}

// Handle executes the launch weapon command
func (h *LaunchWeaponHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*LaunchWeaponCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.weapons.FindByID(ctx, cmd.WeaponID)
	if err != nil {
		return nil, err
	}
	if err := w.CheckOwner(cmd.ActorID); err != nil {
		return nil, err
	}
	if err := w.CheckLaunchable(); err != nil {
		return nil, err
	}

	result, err := h.validator.Validate(ctx, cmd.ActorID, cmd.TargetID, w.PayloadType())
	if err != nil {
		return nil, fmt.Errorf("failed to validate target: %w", err)
	}
	if !result.Valid {
		return nil, result.AsError()
	}

	spec, ok := h.payloads.Get(w.PayloadType())
	if !ok {
		return nil, shared.NewValidationError(shared.ReasonUnknownPayloadType, "unknown payload type %q", w.PayloadType())
	}

	now := h.clock.Now()
	if err := w.Launch(cmd.TargetID, cmd.ActorID, spec.FlightDuration, now); err != nil {
		return nil, err
	}
	if err := h.weapons.Transition(ctx, w, weapon.StatusReady); err != nil {
		return nil, err
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventWeaponLaunched, notification.PriorityHigh, now,
		map[string]interface{}{
			"weapon_id":    w.ID(),
			"payload_type": string(w.PayloadType()),
			"launcher":     cmd.ActorID.String(),
			"target":       cmd.TargetID.String(),
			"impact_at":    w.ImpactAt().UTC().Format(time.RFC3339),
		}, cmd.ActorID, cmd.TargetID))
	batch.Flush(h.emitter)

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Weapon launched", map[string]interface{}{
		"weapon_id": w.ID(),
		"target":    cmd.TargetID.String(),
		"impact_at": *w.ImpactAt(),
	})

	return &LaunchWeaponResponse{Weapon: dtos.WeaponToDTO(w)}, nil
}
