package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// CancelResearchCommand drops the active research without refund
type CancelResearchCommand struct {
	ActorID shared.ActorID
}

// CancelResearchResponse reports what was abandoned
type CancelResearchResponse struct {
	TechID      string
	PointsSpent int
}

// CancelResearchHandler handles the cancel research command
type CancelResearchHandler struct {
	states  research.ResearchStateRepository
	emitter notification.Emitter
	clock   shared.Clock
}

// NewCancelResearchHandler creates a new cancel research handler
func NewCancelResearchHandler(states research.ResearchStateRepository, emitter notification.Emitter, clock shared.Clock) *CancelResearchHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CancelResearchHandler{states: states, emitter: emitter, clock: clock}
}

// Handle executes the cancel research command
func (h *CancelResearchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelResearchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	state, err := h.states.FindOrCreate(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	cancelled, err := state.Cancel(now)
	if err != nil {
		return nil, err
	}
	if err := h.states.Save(ctx, state); err != nil {
		return nil, err
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventResearchCancelled, notification.PriorityLow, now,
		map[string]interface{}{
			"tech_id":      cancelled.TechID,
			"points_spent": cancelled.PointsSpent,
		}, cmd.ActorID))
	batch.Flush(h.emitter)

	return &CancelResearchResponse{TechID: cancelled.TechID, PointsSpent: cancelled.PointsSpent}, nil
}
