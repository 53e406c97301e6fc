package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/pkg/utils"
)

// RecruitOperativeCommand hires a new operative of the given specialization
type RecruitOperativeCommand struct {
	ActorID        shared.ActorID
	Specialization string
}

// RecruitOperativeResponse contains the new operative
type RecruitOperativeResponse struct {
	Operative dtos.OperativeDTO
}

// RecruitOperativeHandler handles operative recruitment
type RecruitOperativeHandler struct {
	operatives espionage.OperativeRepository
	catalog    *espionage.Catalog
	ledger     ledger.Ledger
	emitter    notification.Emitter
	clock      shared.Clock
	cap        int
}

// NewRecruitOperativeHandler creates a new recruit operative handler.
// operativeCap <= 0 disables the cap.
func NewRecruitOperativeHandler(
	operatives espionage.OperativeRepository,
	catalog *espionage.Catalog,
	ledgerPort ledger.Ledger,
	emitter notification.Emitter,
	clock shared.Clock,
	operativeCap int,
) *RecruitOperativeHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RecruitOperativeHandler{
		operatives: operatives,
		catalog:    catalog,
		ledger:     ledgerPort,
		emitter:    emitter,
		clock:      clock,
		cap:        operativeCap,
	}
}

// Handle executes the recruit operative command
func (h *RecruitOperativeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RecruitOperativeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	spec, ok := h.catalog.Specialization(espionage.Specialization(cmd.Specialization))
	if !ok {
		return nil, shared.NewValidationError(shared.ReasonUnknownSpecialization, "unknown specialization %q", cmd.Specialization)
	}

	// fast rejection before any debit; AddWithinCap below is authoritative
	if h.cap > 0 {
		owned, err := h.operatives.CountByOwner(ctx, cmd.ActorID)
		if err != nil {
			return nil, fmt.Errorf("failed to count operatives: %w", err)
		}
		if owned >= h.cap {
			return nil, shared.NewPreconditionError(shared.ReasonOperativeCapReached,
				"actor %s already commands %d operatives", cmd.ActorID, owned).
				WithDetail("cap", h.cap)
		}
	}

	id := utils.GenerateID(utils.PrefixOperative)
	if spec.RecruitCost > 0 {
		if _, err := h.ledger.Debit(ctx, ledger.Movement{
			ActorID:   cmd.ActorID,
			Currency:  ledger.CurrencyResources,
			EntryType: ledger.EntryTypeOperativeRecruit,
			Amount:    spec.RecruitCost,
			Reference: id,
		}); err != nil {
			return nil, err
		}
	}

	now := h.clock.Now()
	operative := espionage.NewOperative(id, cmd.ActorID, spec, now)
	if err := h.operatives.AddWithinCap(ctx, operative, h.cap); err != nil {
		if spec.RecruitCost > 0 {
			if _, refundErr := h.ledger.Credit(ctx, ledger.Movement{
				ActorID:   cmd.ActorID,
				Currency:  ledger.CurrencyResources,
				EntryType: ledger.EntryTypeOperativeRecruit,
				Amount:    spec.RecruitCost,
				Reference: id,
			}); refundErr != nil {
				common.LoggerFromContext(ctx).Log(common.LevelError, "Failed to refund recruit cost", map[string]interface{}{
					"operative_id": id,
					"error":        refundErr.Error(),
				})
			}
		}
		return nil, err
	}

	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventOperativeRecruited, notification.PriorityLow, now,
		map[string]interface{}{
			"operative_id":   id,
			"specialization": cmd.Specialization,
			"skill":          operative.Skill(),
		}, cmd.ActorID))
	batch.Flush(h.emitter)

	return &RecruitOperativeResponse{Operative: dtos.OperativeToDTO(operative)}, nil
}
