package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/pkg/utils"
)

// StartMissionCommand sends an idle operative on a timed mission
type StartMissionCommand struct {
	ActorID     shared.ActorID
	OperativeID string
	MissionType string
	TargetID    shared.ActorID
}

// StartMissionResponse contains the ACTIVE mission
type StartMissionResponse struct {
	Mission dtos.MissionDTO
}

// StartMissionHandler handles the start mission command
type StartMissionHandler struct {
	missions   espionage.MissionRepository
	operatives espionage.OperativeRepository
	catalog    *espionage.Catalog
	directory  espionage.TargetDirectory
	emitter    notification.Emitter
	clock      shared.Clock
}

// NewStartMissionHandler creates a new start mission handler
func NewStartMissionHandler(
	missions espionage.MissionRepository,
	operatives espionage.OperativeRepository,
	catalog *espionage.Catalog,
	directory espionage.TargetDirectory,
	emitter notification.Emitter,
	clock shared.Clock,
) *StartMissionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StartMissionHandler{
		missions:   missions,
		operatives: operatives,
		catalog:    catalog,
		directory:  directory,
		emitter:    emitter,
		clock:      clock,
	}
}

// Handle executes the start mission command
func (h *StartMissionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartMissionCommand)
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

	spec, ok := h.catalog.Mission(espionage.MissionType(cmd.MissionType))
	if !ok {
		return nil, shared.NewValidationError(shared.ReasonUnknownMissionType, "unknown mission type %q", cmd.MissionType)
	}
	if err := checkTarget(ctx, h.directory, cmd.ActorID, cmd.TargetID); err != nil {
		return nil, err
	}
	if err := operative.CheckIdle(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	mission := espionage.NewMission(utils.GenerateID(utils.PrefixMission), operative, spec, cmd.TargetID, now)
	if err := operative.Assign(mission.ID()); err != nil {
		return nil, err
	}
	if err := h.missions.Start(ctx, mission, operative); err != nil {
		return nil, err
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventMissionStarted, notification.PriorityLow, now,
		map[string]interface{}{
			"mission_id":   mission.ID(),
			"mission_type": cmd.MissionType,
			"operative_id": operative.ID(),
			"completes_at": mission.CompletesAt(),
		}, cmd.ActorID))
	batch.Flush(h.emitter)

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Mission started", map[string]interface{}{
		"mission_id":   mission.ID(),
		"operative_id": operative.ID(),
		"target":       cmd.TargetID.String(),
	})

	return &StartMissionResponse{Mission: dtos.MissionToDTO(mission)}, nil
}

// checkTarget rejects self-targeting and targets that do not exist
func checkTarget(ctx context.Context, directory espionage.TargetDirectory, actorID, targetID shared.ActorID) error {
	if targetID.IsZero() {
		return shared.NewValidationError(shared.ReasonInvalidArgument, "target is required")
	}
	if actorID.Equals(targetID) {
		return shared.NewPreconditionError(shared.ReasonSelfTarget, "cannot target yourself")
	}
	target, err := directory.Profile(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to look up target: %w", err)
	}
	if target == nil {
		return shared.NewNotFoundError(shared.ReasonActorNotFound, "target %s does not exist", targetID)
	}
	return nil
}
