package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
	"github.com/fame0528/DarkFrame-sub009/pkg/utils"
)

// CreateWeaponCommand starts assembling a new weapon of the given payload type
type CreateWeaponCommand struct {
	ActorID     shared.ActorID
	PayloadType string
}

// CreateWeaponResponse carries the new ASSEMBLING weapon
type CreateWeaponResponse struct {
	Weapon dtos.WeaponDTO
}

// CreateWeaponHandler checks the payload's tech gate, reserves its cost and
// inserts the weapon
type CreateWeaponHandler struct {
	weapons  weapon.WeaponRepository
	payloads *weapon.PayloadCatalog
	research research.ResearchStateRepository
	ledger   ledger.Ledger
	clock    shared.Clock
}

// NewCreateWeaponHandler creates a new create weapon handler
func NewCreateWeaponHandler(
	weapons weapon.WeaponRepository,
	payloads *weapon.PayloadCatalog,
	researchRepo research.ResearchStateRepository,
	ledgerPort ledger.Ledger,
	clock shared.Clock,
) *CreateWeaponHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateWeaponHandler{
		weapons:  weapons,
		payloads: payloads,
		research: researchRepo,
		ledger:   ledgerPort,
		clock:    clock,
	}
}

// Handle executes the create weapon command
func (h *CreateWeaponHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateWeaponCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	spec, ok := h.payloads.Get(weapon.PayloadType(cmd.PayloadType))
	if !ok {
		return nil, shared.NewValidationError(shared.ReasonUnknownPayloadType, "unknown payload type %q", cmd.PayloadType)
	}

	if err := h.checkTechGate(ctx, cmd.ActorID, spec); err != nil {
		return nil, err
	}

	id := utils.GenerateID(utils.PrefixWeapon)
	if spec.Cost > 0 {
		if _, err := h.ledger.Debit(ctx, ledger.Movement{
			ActorID:   cmd.ActorID,
			Currency:  ledger.CurrencyResources,
			EntryType: ledger.EntryTypeWeaponReserve,
			Amount:    spec.Cost,
			Reference: id,
		}); err != nil {
			return nil, err
		}
	}

	w := weapon.NewWeapon(id, cmd.ActorID, spec, spec.Cost, h.clock.Now())
	if err := h.weapons.Add(ctx, w); err != nil {
		h.releaseReservation(ctx, cmd.ActorID, id, spec.Cost)
		return nil, err
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Weapon assembly started", map[string]interface{}{
		"weapon_id":    id,
		"owner":        cmd.ActorID.String(),
		"payload_type": cmd.PayloadType,
		"reserved":     spec.Cost,
	})

	return &CreateWeaponResponse{Weapon: dtos.WeaponToDTO(w)}, nil
}

func (h *CreateWeaponHandler) checkTechGate(ctx context.Context, owner shared.ActorID, spec weapon.PayloadSpec) error {
	if spec.RequiredTech == "" {
		return nil
	}
	state, err := h.research.FindOrCreate(ctx, owner)
	if err != nil {
		return err
	}
	if !state.IsCompleted(spec.RequiredTech) {
		return shared.NewPreconditionError(shared.ReasonTechLocked,
			"payload %s requires tech %s", spec.Type, spec.RequiredTech).
			WithDetail("required_tech", spec.RequiredTech)
	}
	return nil
}

func (h *CreateWeaponHandler) releaseReservation(ctx context.Context, owner shared.ActorID, weaponID string, amount int) {
	if amount <= 0 {
		return
	}
	if _, err := h.ledger.Credit(ctx, ledger.Movement{
		ActorID:   owner,
		Currency:  ledger.CurrencyResources,
		EntryType: ledger.EntryTypeWeaponRelease,
		Amount:    amount,
		Reference: weaponID,
	}); err != nil {
		common.LoggerFromContext(ctx).Log(common.LevelError, "Failed to release weapon reservation", map[string]interface{}{
			"weapon_id": weaponID,
			"amount":    amount,
			"error":     err.Error(),
		})
	}
}
