package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// DismantleWeaponCommand scraps an unlaunched weapon
type DismantleWeaponCommand struct {
	ActorID  shared.ActorID
	WeaponID string
}

// DismantleWeaponResponse reports the resources returned to the owner
type DismantleWeaponResponse struct {
	Weapon   dtos.WeaponDTO
	Released int
}

// DismantleWeaponHandler handles weapon dismantling
type DismantleWeaponHandler struct {
	weapons weapon.WeaponRepository
	ledger  ledger.Ledger
	emitter notification.Emitter
	clock   shared.Clock
}

// NewDismantleWeaponHandler creates a new dismantle weapon handler
func NewDismantleWeaponHandler(weapons weapon.WeaponRepository, ledgerPort ledger.Ledger, emitter notification.Emitter, clock shared.Clock) *DismantleWeaponHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &DismantleWeaponHandler{weapons: weapons, ledger: ledgerPort, emitter: emitter, clock: clock}
}

// Handle executes the dismantle weapon command
func (h *DismantleWeaponHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DismantleWeaponCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.weapons.FindByID(ctx, cmd.WeaponID)
	if err != nil {
		return nil, err
	}

	expected := w.Status()
	now := h.clock.Now()
	released, err := w.Dismantle(cmd.ActorID, now)
	if err != nil {
		return nil, err
	}
	if err := h.weapons.Transition(ctx, w, expected); err != nil {
		return nil, err
	}

	if released > 0 {
		if _, err := h.ledger.Credit(ctx, ledger.Movement{
			ActorID:   w.Owner(),
			Currency:  ledger.CurrencyResources,
			EntryType: ledger.EntryTypeWeaponRelease,
			Amount:    released,
			Reference: w.ID(),
		}); err != nil {
			// The weapon is already DISMANTLED; surface the failed refund without undoing it.
			return nil, fmt.Errorf("weapon %s dismantled but failed to release %d resources: %w", w.ID(), released, err)
		}
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventWeaponDismantled, notification.PriorityLow, now,
		map[string]interface{}{"weapon_id": w.ID(), "released": released}, w.Owner()))
	batch.Flush(h.emitter)

	return &DismantleWeaponResponse{Weapon: dtos.WeaponToDTO(w), Released: released}, nil
}
