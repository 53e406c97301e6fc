package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// CounterIntelSweepCommand has an idle operative scan for hostile missions
// targeting its owner
type CounterIntelSweepCommand struct {
	ActorID     shared.ActorID
	OperativeID string
}

// RevealedMission is one hostile mission the sweep exposed
type RevealedMission struct {
	MissionID   string
	MissionType string
	Origin      string
	OperativeID string
}

// CounterIntelSweepResponse reports what the sweep found
type CounterIntelSweepResponse struct {
	Scanned  int
	Revealed []RevealedMission
}

// CounterIntelSweepHandler handles counter-intelligence sweeps
type CounterIntelSweepHandler struct {
	missions   espionage.MissionRepository
	operatives espionage.OperativeRepository
	emitter    notification.Emitter
	random     shared.RandomSource
	clock      shared.Clock
}

// NewCounterIntelSweepHandler creates a new sweep handler
func NewCounterIntelSweepHandler(
	missions espionage.MissionRepository,
	operatives espionage.OperativeRepository,
	emitter notification.Emitter,
	random shared.RandomSource,
	clock shared.Clock,
) *CounterIntelSweepHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if random == nil {
		random = shared.NewRandomSource(0)
	}
	return &CounterIntelSweepHandler{
		missions:   missions,
		operatives: operatives,
		emitter:    emitter,
		random:     random,
		clock:      clock,
	}
}

// Handle executes the sweep
func (h *CounterIntelSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CounterIntelSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	sweeper, err := h.operatives.FindByID(ctx, cmd.OperativeID)
	if err != nil {
		return nil, err
	}
	if err := sweeper.CheckOwner(cmd.ActorID); err != nil {
		return nil, err
	}
	if err := sweeper.CheckIdle(); err != nil {
		return nil, err
	}

	active, err := h.missions.FindActiveTargeting(ctx, cmd.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hostile missions: %w", err)
	}

	hostile := make([]espionage.HostileActivity, 0, len(active))
	for _, m := range active {
		op, err := h.operatives.FindByID(ctx, m.OperativeID())
		if err != nil {
			if shared.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		hostile = append(hostile, espionage.HostileActivity{Mission: m, Operative: op})
	}

	revealed := espionage.Sweep(sweeper, hostile, h.random.Float64)

	resp := &CounterIntelSweepResponse{Scanned: len(hostile), Revealed: make([]RevealedMission, 0, len(revealed))}
	for _, r := range revealed {
		resp.Revealed = append(resp.Revealed, RevealedMission{
			MissionID:   r.Mission.ID(),
			MissionType: string(r.Mission.MissionType()),
			Origin:      r.Mission.Owner().String(),
			OperativeID: r.Operative.ID(),
		})
	}

	if len(resp.Revealed) > 0 {
		var batch notification.Batch
		batch.Add(notification.NewActorEvent(notification.EventHostilesRevealed, notification.PriorityHigh, h.clock.Now(),
			map[string]interface{}{
				"scanned":  resp.Scanned,
				"revealed": len(resp.Revealed),
			}, cmd.ActorID))
		batch.Flush(h.emitter)
	}

	return resp, nil
}
