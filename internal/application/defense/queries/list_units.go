package queries

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/defense/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// ListUnitsQuery lists an actor's defense units
type ListUnitsQuery struct {
	ActorID shared.ActorID
}

// ListUnitsResponse contains the units
type ListUnitsResponse struct {
	Units []dtos.UnitDTO
}

// ListUnitsHandler handles the list units query
type ListUnitsHandler struct {
	units defense.UnitRepository
}

func NewListUnitsHandler(units defense.UnitRepository) *ListUnitsHandler {
	return &ListUnitsHandler{units: units}
}

// Handle executes the list units query
func (h *ListUnitsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListUnitsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	units, err := h.units.ListByOwner(ctx, query.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list defense units: %w", err)
	}
	out := make([]dtos.UnitDTO, 0, len(units))
	for _, u := range units {
		out = append(out, dtos.UnitToDTO(u))
	}
	return &ListUnitsResponse{Units: out}, nil
}
