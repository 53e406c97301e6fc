package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// InstallComponentCommand marks one checklist component installed
type InstallComponentCommand struct {
	ActorID     shared.ActorID
	WeaponID    string
	ComponentID string
}

// InstallComponentResponse reports whether the weapon became READY
type InstallComponentResponse struct {
	Weapon      dtos.WeaponDTO
	BecameReady bool
}

// InstallComponentHandler handles component installation
type InstallComponentHandler struct {
	weapons weapon.WeaponRepository
	emitter notification.Emitter
	clock   shared.Clock
}

// NewInstallComponentHandler creates a new install component handler
func NewInstallComponentHandler(weapons weapon.WeaponRepository, emitter notification.Emitter, clock shared.Clock) *InstallComponentHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &InstallComponentHandler{weapons: weapons, emitter: emitter, clock: clock}
}

// Handle executes the install component command
func (h *InstallComponentHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*InstallComponentCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.weapons.FindByID(ctx, cmd.WeaponID)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	becameReady, err := w.InstallComponent(cmd.ComponentID, cmd.ActorID, now)
	if err != nil {
		return nil, err
	}
	if err := h.weapons.Transition(ctx, w, weapon.StatusAssembling); err != nil {
		return nil, err
	}

	if becameReady {
		var batch notification.Batch
		batch.Add(notification.NewActorEvent(notification.EventWeaponReady, notification.PriorityNormal, now,
			map[string]interface{}{
				"weapon_id":    w.ID(),
				"payload_type": string(w.PayloadType()),
			}, w.Owner()))
		batch.Flush(h.emitter)
	}

	return &InstallComponentResponse{Weapon: dtos.WeaponToDTO(w), BecameReady: becameReady}, nil
}
