package queries

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// ListWeaponsQuery lists an actor's weapons, optionally filtered by status
type ListWeaponsQuery struct {
	ActorID shared.ActorID
	Status  string
}

// ListWeaponsResponse contains the matching weapons
type ListWeaponsResponse struct {
	Weapons []dtos.WeaponDTO
}

// ListWeaponsHandler handles the list weapons query
type ListWeaponsHandler struct {
	weapons weapon.WeaponRepository
}

// NewListWeaponsHandler creates a new list weapons handler
func NewListWeaponsHandler(weapons weapon.WeaponRepository) *ListWeaponsHandler {
	return &ListWeaponsHandler{weapons: weapons}
}

// Handle executes the list weapons query
func (h *ListWeaponsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListWeaponsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	owned, err := h.weapons.ListByOwner(ctx, query.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weapons: %w", err)
	}

	out := make([]dtos.WeaponDTO, 0, len(owned))
	for _, w := range owned {
		if query.Status != "" && string(w.Status()) != query.Status {
			continue
		}
		out = append(out, dtos.WeaponToDTO(w))
	}
	return &ListWeaponsResponse{Weapons: out}, nil
}

// GetWeaponQuery loads one weapon by id
type GetWeaponQuery struct {
	WeaponID string
}

// GetWeaponResponse contains the weapon
type GetWeaponResponse struct {
	Weapon dtos.WeaponDTO
}

// GetWeaponHandler handles the get weapon query
type GetWeaponHandler struct {
	weapons weapon.WeaponRepository
}

func NewGetWeaponHandler(weapons weapon.WeaponRepository) *GetWeaponHandler {
	return &GetWeaponHandler{weapons: weapons}
}

// Handle executes the get weapon query
func (h *GetWeaponHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetWeaponQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	w, err := h.weapons.FindByID(ctx, query.WeaponID)
	if err != nil {
		return nil, err
	}
	return &GetWeaponResponse{Weapon: dtos.WeaponToDTO(w)}, nil
}
