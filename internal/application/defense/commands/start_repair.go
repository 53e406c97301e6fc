package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/defense/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// StartRepairCommand pays for and starts a timed repair
type StartRepairCommand struct {
	ActorID shared.ActorID
	UnitID  string
}

// StartRepairResponse reports the cost and the repaired unit
type StartRepairResponse struct {
	Unit dtos.UnitDTO
	Cost int
}

// StartRepairHandler handles the start repair command
type StartRepairHandler struct {
	units   defense.UnitRepository
	ledger  ledger.Ledger
	emitter notification.Emitter
	policy  defense.RepairPolicy
	clock   shared.Clock
}

// NewStartRepairHandler creates a new start repair handler
func NewStartRepairHandler(
	units defense.UnitRepository,
	ledgerPort ledger.Ledger,
	emitter notification.Emitter,
	policy defense.RepairPolicy,
	clock shared.Clock,
) *StartRepairHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StartRepairHandler{units: units, ledger: ledgerPort, emitter: emitter, policy: policy, clock: clock}
}

// Handle executes the start repair command
func (h *StartRepairHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartRepairCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	unit, err := h.units.FindByID(ctx, cmd.UnitID)
	if err != nil {
		return nil, err
	}
	if err := unit.CheckOwner(cmd.ActorID); err != nil {
		return nil, err
	}

	cost := unit.RepairCost(h.policy)
	now := h.clock.Now()
	if err := unit.StartRepair(h.policy, now); err != nil {
		return nil, err
	}

	movement := ledger.Movement{
		ActorID:   cmd.ActorID,
		Currency:  ledger.CurrencyResources,
		EntryType: ledger.EntryTypeRepairCost,
		Amount:    cost,
		Reference: unit.ID(),
	}
	if cost > 0 {
		if _, err := h.ledger.Debit(ctx, movement); err != nil {
			return nil, err
		}
	}

	if err := h.units.Update(ctx, unit); err != nil {
		if cost > 0 {
			if _, refundErr := h.ledger.Credit(ctx, movement); refundErr != nil {
				common.LoggerFromContext(ctx).Log(common.LevelError, "Failed to refund repair cost", map[string]interface{}{
					"unit_id": unit.ID(),
					"cost":    cost,
					"error":   refundErr.Error(),
				})
			}
		}
		return nil, err
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventRepairStarted, notification.PriorityLow, now,
		map[string]interface{}{
			"unit_id":      unit.ID(),
			"cost":         cost,
			"completes_at": *unit.RepairCompletesAt(),
		}, cmd.ActorID))
	batch.Flush(h.emitter)

	return &StartRepairResponse{Unit: dtos.UnitToDTO(unit), Cost: cost}, nil
}
