package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/services"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

const defaultMissionBatch = 200

// CompleteMissionCommand resolves one due mission on the owner's request
type CompleteMissionCommand struct {
	ActorID   shared.ActorID
	MissionID string
}

// CompleteMissionResponse carries the resolution
type CompleteMissionResponse struct {
	Resolution dtos.ResolutionDTO
}

// CompleteMissionHandler is the explicit completion path. It never advances
// time; a mission that is not yet due fails with MISSION_NOT_DUE.
type CompleteMissionHandler struct {
	missions espionage.MissionRepository
	resolver *services.MissionResolver
	clock    shared.Clock
}

// NewCompleteMissionHandler creates a new complete mission handler
func NewCompleteMissionHandler(missions espionage.MissionRepository, resolver *services.MissionResolver, clock shared.Clock) *CompleteMissionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CompleteMissionHandler{missions: missions, resolver: resolver, clock: clock}
}

// Handle executes the complete mission command
func (h *CompleteMissionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CompleteMissionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	mission, err := h.missions.FindByID(ctx, cmd.MissionID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	if err := mission.CheckCompletable(cmd.ActorID, now); err != nil {
		return nil, err
	}

	resolution, err := h.resolver.Resolve(ctx, mission, now)
	if err != nil {
		return nil, err
	}
	return &CompleteMissionResponse{Resolution: *resolution}, nil
}

// CompleteDueMissionsCommand is the scheduled sweep over ACTIVE missions past
// their completion time. A zero Now means the handler's clock.
type CompleteDueMissionsCommand struct {
	Now   time.Time
	Limit int
}

// CompleteDueMissionsResponse summarises one sweep
type CompleteDueMissionsResponse struct {
	Due      int
	Resolved int
	Skipped  int
	Failed   int
}

// CompleteDueMissionsHandler handles the scheduled mission sweep
type CompleteDueMissionsHandler struct {
	missions espionage.MissionRepository
	resolver *services.MissionResolver
	clock    shared.Clock
}

// NewCompleteDueMissionsHandler creates a new due mission sweep handler
func NewCompleteDueMissionsHandler(missions espionage.MissionRepository, resolver *services.MissionResolver, clock shared.Clock) *CompleteDueMissionsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CompleteDueMissionsHandler{missions: missions, resolver: resolver, clock: clock}
}

// Handle executes the sweep with per-record isolation
func (h *CompleteDueMissionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CompleteDueMissionsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	now := cmd.Now
	if now.IsZero() {
		now = h.clock.Now()
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultMissionBatch
	}

	due, err := h.missions.FindDue(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find due missions: %w", err)
	}

	logger := common.LoggerFromContext(ctx)
	resp := &CompleteDueMissionsResponse{Due: len(due)}
	var errs []error

	for _, mission := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		_, err := h.resolver.Resolve(ctx, mission, now)
		switch {
		case err == nil:
			resp.Resolved++
		case shared.IsConflict(err):
			resp.Skipped++
		default:
			resp.Failed++
			errs = append(errs, fmt.Errorf("mission %s: %w", mission.ID(), err))
			logger.Log(common.LevelError, "Mission resolution failed", map[string]interface{}{
				"mission_id": mission.ID(),
				"error":      err.Error(),
			})
		}
	}

	return resp, errors.Join(errs...)
}
