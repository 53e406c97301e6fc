package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/defense/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/pkg/utils"
)

// DeployUnitCommand builds a new defense unit at full health
type DeployUnitCommand struct {
	ActorID shared.ActorID
}

// UnitResponse is returned by every single-unit defense command
type UnitResponse struct {
	Unit dtos.UnitDTO
}

// DeployUnitHandler handles unit deployment
type DeployUnitHandler struct {
	units defense.UnitRepository
	clock shared.Clock
}

func NewDeployUnitHandler(units defense.UnitRepository, clock shared.Clock) *DeployUnitHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &DeployUnitHandler{units: units, clock: clock}
}

// Handle executes the deploy unit command
func (h *DeployUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeployUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	unit := defense.NewUnit(utils.GenerateID(utils.PrefixDefenseUnit), cmd.ActorID, h.clock.Now())
	if err := h.units.Add(ctx, unit); err != nil {
		return nil, err
	}
	return &UnitResponse{Unit: dtos.UnitToDTO(unit)}, nil
}

// ActivateUnitCommand puts an IDLE unit on watch
type ActivateUnitCommand struct {
	ActorID shared.ActorID
	UnitID  string
}

// StandDownUnitCommand takes an ACTIVE unit off watch
type StandDownUnitCommand struct {
	ActorID shared.ActorID
	UnitID  string
}

// UnitStateHandler handles activate and stand-down, which differ only in the transition
type UnitStateHandler struct {
	units defense.UnitRepository
	clock shared.Clock
}

func NewUnitStateHandler(units defense.UnitRepository, clock shared.Clock) *UnitStateHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &UnitStateHandler{units: units, clock: clock}
}

// Handle executes ActivateUnitCommand or StandDownUnitCommand
func (h *UnitStateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var (
		actorID shared.ActorID
		unitID  string
		apply   func(u *defense.Unit) error
	)
	now := h.clock.Now()

	switch cmd := request.(type) {
	case *ActivateUnitCommand:
		actorID, unitID = cmd.ActorID, cmd.UnitID
		apply = func(u *defense.Unit) error { return u.Activate(now) }
	case *StandDownUnitCommand:
		actorID, unitID = cmd.ActorID, cmd.UnitID
		apply = func(u *defense.Unit) error { return u.StandDown(now) }
	default:
		return nil, fmt.Errorf("invalid request type")
	}

	unit, err := h.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := unit.CheckOwner(actorID); err != nil {
		return nil, err
	}
	if err := apply(unit); err != nil {
		return nil, err
	}
	if err := h.units.Update(ctx, unit); err != nil {
		return nil, err
	}
	return &UnitResponse{Unit: dtos.UnitToDTO(unit)}, nil
}
