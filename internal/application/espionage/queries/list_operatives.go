package queries

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// ListOperativesQuery lists an actor's operatives
type ListOperativesQuery struct {
	ActorID shared.ActorID
}

// ListOperativesResponse contains the operatives
type ListOperativesResponse struct {
	Operatives []dtos.OperativeDTO
}

// ListOperativesHandler handles the list operatives query
type ListOperativesHandler struct {
	operatives espionage.OperativeRepository
}

func NewListOperativesHandler(operatives espionage.OperativeRepository) *ListOperativesHandler {
	return &ListOperativesHandler{operatives: operatives}
}

// Handle executes the list operatives query
func (h *ListOperativesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListOperativesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	owned, err := h.operatives.ListByOwner(ctx, query.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operatives: %w", err)
	}
	out := make([]dtos.OperativeDTO, 0, len(owned))
	for _, o := range owned {
		out = append(out, dtos.OperativeToDTO(o))
	}
	return &ListOperativesResponse{Operatives: out}, nil
}

// ListMissionsQuery lists every mission an operative has run
type ListMissionsQuery struct {
	ActorID     shared.ActorID
	OperativeID string
}

// ListMissionsResponse contains the missions, newest first
type ListMissionsResponse struct {
	Missions []dtos.MissionDTO
}

// ListMissionsHandler handles the list missions query
type ListMissionsHandler struct {
	missions   espionage.MissionRepository
	operatives espionage.OperativeRepository
}

func NewListMissionsHandler(missions espionage.MissionRepository, operatives espionage.OperativeRepository) *ListMissionsHandler {
	return &ListMissionsHandler{missions: missions, operatives: operatives}
}

// Handle executes the list missions query. Only the operative's owner may read its history.
func (h *ListMissionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListMissionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	operative, err := h.operatives.FindByID(ctx, query.OperativeID)
	if err != nil {
		return nil, err
	}
	if err := operative.CheckOwner(query.ActorID); err != nil {
		return nil, err
	}

	missions, err := h.missions.ListByOperative(ctx, query.OperativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	out := make([]dtos.MissionDTO, 0, len(missions))
	for _, m := range missions {
		out = append(out, dtos.MissionToDTO(m))
	}
	return &ListMissionsResponse{Missions: out}, nil
}
