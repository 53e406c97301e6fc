package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/research/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// StartResearchCommand opens research on a tech. Multiplier discounts the
// cost; zero means full price.
type StartResearchCommand struct {
	ActorID    shared.ActorID
	TechID     string
	Multiplier float64
}

// StartResearchResponse contains the updated research state
type StartResearchResponse struct {
	State dtos.ResearchStateDTO
}

// StartResearchHandler handles the start research command
type StartResearchHandler struct {
	states  research.ResearchStateRepository
	catalog *research.Catalog
	gates   research.GateProvider
	ledger  ledger.Ledger
	emitter notification.Emitter
	clock   shared.Clock
}

// NewStartResearchHandler creates a new start research handler
func NewStartResearchHandler(
	states research.ResearchStateRepository,
	catalog *research.Catalog,
	gates research.GateProvider,
	ledgerPort ledger.Ledger,
	emitter notification.Emitter,
	clock shared.Clock,
) *StartResearchHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StartResearchHandler{
		states:  states,
		catalog: catalog,
		gates:   gates,
		ledger:  ledgerPort,
		emitter: emitter,
		clock:   clock,
	}
}

// Handle executes the start research command
func (h *StartResearchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartResearchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	multiplier := cmd.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}

	state, err := h.states.FindOrCreate(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	balance, gates, err := loadStartInputs(ctx, h.ledger, h.gates, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if err := state.Start(h.catalog, cmd.TechID, balance, gates, multiplier, now); err != nil {
		return nil, err
	}
	if err := h.states.Save(ctx, state); err != nil {
		return nil, err
	}

	progress := state.InProgress()
	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventResearchStarted, notification.PriorityNormal, now,
		map[string]interface{}{
			"tech_id":         progress.TechID,
			"points_required": progress.PointsRequired,
		}, cmd.ActorID))
	batch.Flush(h.emitter)

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Research started", map[string]interface{}{
		"actor_id":        cmd.ActorID.String(),
		"tech_id":         progress.TechID,
		"points_required": progress.PointsRequired,
	})

	return &StartResearchResponse{State: dtos.StateToDTO(state)}, nil
}

// loadStartInputs reads the live balance and gate levels CanStart checks against
func loadStartInputs(ctx context.Context, ledgerPort ledger.Ledger, gates research.GateProvider, actorID shared.ActorID) (int, research.Gates, error) {
	balance, err := ledgerPort.Balance(ctx, actorID, ledger.CurrencyResearchPoints)
	if err != nil {
		return 0, research.Gates{}, err
	}
	g, err := gates.GatesFor(ctx, actorID)
	if err != nil {
		return 0, research.Gates{}, err
	}
	return balance, g, nil
}
