package queries

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/research/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// GetResearchStateQuery loads an actor's research state
type GetResearchStateQuery struct {
	ActorID shared.ActorID
}

// GetResearchStateResponse contains the state
type GetResearchStateResponse struct {
	State dtos.ResearchStateDTO
}

// GetResearchStateHandler handles the get research state query
type GetResearchStateHandler struct {
	states research.ResearchStateRepository
}

// NewGetResearchStateHandler creates a new get research state handler
func NewGetResearchStateHandler(states research.ResearchStateRepository) *GetResearchStateHandler {
	return &GetResearchStateHandler{states: states}
}

// Handle executes the get research state query
func (h *GetResearchStateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetResearchStateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	state, err := h.states.FindOrCreate(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}
	return &GetResearchStateResponse{State: dtos.StateToDTO(state)}, nil
}
