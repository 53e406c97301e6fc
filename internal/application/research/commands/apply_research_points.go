package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// ApplyResearchPointsCommand spends points on the actor's active research
type ApplyResearchPointsCommand struct {
	ActorID shared.ActorID
	Amount  int
}

// ApplyResearchPointsResponse reports how much was absorbed and whether the tech completed
type ApplyResearchPointsResponse struct {
	TechID          string
	PointsApplied   int
	PointsRemaining int
	Completed       bool
}

// ApplyResearchPointsHandler debits exactly the absorbable amount, applies it,
// and credits it back if the state write loses a race.
type ApplyResearchPointsHandler struct {
	states  research.ResearchStateRepository
	catalog *research.Catalog
	ledger  ledger.Ledger
	emitter notification.Emitter
	clock   shared.Clock
}

// NewApplyResearchPointsHandler creates a new apply research points handler
func NewApplyResearchPointsHandler(
	states research.ResearchStateRepository,
	catalog *research.Catalog,
	ledgerPort ledger.Ledger,
	emitter notification.Emitter,
	clock shared.Clock,
) *ApplyResearchPointsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ApplyResearchPointsHandler{
		states:  states,
		catalog: catalog,
		ledger:  ledgerPort,
		emitter: emitter,
		clock:   clock,
	}
}

// Handle executes the apply research points command
func (h *ApplyResearchPointsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ApplyResearchPointsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	state, err := h.states.FindOrCreate(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	spend, err := state.Spendable(cmd.Amount)
	if err != nil {
		return nil, err
	}
	techID := state.InProgress().TechID

	if _, err := h.ledger.Debit(ctx, ledger.Movement{
		ActorID:   cmd.ActorID,
		Currency:  ledger.CurrencyResearchPoints,
		EntryType: ledger.EntryTypeResearchSpend,
		Amount:    spend,
		Reference: techID,
	}); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	result, err := state.ApplyPoints(h.catalog, spend, now)
	if err == nil {
		err = h.states.Save(ctx, state)
	}
	if err != nil {
		h.refund(ctx, cmd.ActorID, techID, spend)
		return nil, err
	}

	if result.Completed {
		var batch notification.Batch
		batch.Add(notification.NewActorEvent(notification.EventResearchCompleted, notification.PriorityHigh, now,
			map[string]interface{}{"tech_id": result.TechID}, cmd.ActorID))
		batch.Flush(h.emitter)

		common.LoggerFromContext(ctx).Log(common.LevelInfo, "Research completed", map[string]interface{}{
			"actor_id": cmd.ActorID.String(),
			"tech_id":  result.TechID,
		})
	}

	return &ApplyResearchPointsResponse{
		TechID:          result.TechID,
		PointsApplied:   result.PointsApplied,
		PointsRemaining: result.PointsRemaining,
		Completed:       result.Completed,
	}, nil
}

func (h *ApplyResearchPointsHandler) refund(ctx context.Context, actorID shared.ActorID, techID string, amount int) {
	if _, err := h.ledger.Credit(ctx, ledger.Movement{
		ActorID:   actorID,
		Currency:  ledger.CurrencyResearchPoints,
		EntryType: ledger.EntryTypeResearchRefund,
		Amount:    amount,
		Reference: techID,
	}); err != nil {
		common.LoggerFromContext(ctx).Log(common.LevelError, "Failed to refund research points", map[string]interface{}{
			"actor_id": actorID.String(),
			"tech_id":  techID,
			"amount":   amount,
			"error":    err.Error(),
		})
	}
}
