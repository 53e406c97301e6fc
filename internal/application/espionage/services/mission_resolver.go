package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/espionage/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// MissionResolver rolls and commits a due mission. The explicit completion
// command and the scheduled sweep both go through it so the two paths cannot
// diverge.
type MissionResolver struct {
	missions   espionage.MissionRepository
	operatives espionage.OperativeRepository
	catalog    *espionage.Catalog
	directory  espionage.TargetDirectory
	ledger     ledger.Ledger
	emitter    notification.Emitter
	random     shared.RandomSource
}

// NewMissionResolver creates a mission resolver. A nil random source uses a
// wall-clock seeded one.
func NewMissionResolver(
	missions espionage.MissionRepository,
	operatives espionage.OperativeRepository,
	catalog *espionage.Catalog,
	directory espionage.TargetDirectory,
	ledgerPort ledger.Ledger,
	emitter notification.Emitter,
	random shared.RandomSource,
) *MissionResolver {
	if random == nil {
		random = shared.NewRandomSource(0)
	}
	return &MissionResolver{
		missions:   missions,
		operatives: operatives,
		catalog:    catalog,
		directory:  directory,
		ledger:     ledgerPort,
		emitter:    emitter,
		random:     random,
	}
}

// Resolve rolls the outcome and writes mission and operative together.
// A CONFLICT means another path resolved the mission first.
func (r *MissionResolver) Resolve(ctx context.Context, mission *espionage.Mission, now time.Time) (*dtos.ResolutionDTO, error) {
	operative, err := r.operatives.FindByID(ctx, mission.OperativeID())
	if err != nil {
		return nil, err
	}
	spec, ok := r.catalog.Mission(mission.MissionType())
	if !ok {
		return nil, shared.NewValidationError(shared.ReasonUnknownMissionType, "unknown mission type %q", mission.MissionType())
	}

	counterIntel := 0
	target, err := r.directory.Profile(ctx, mission.TargetID())
	if err != nil {
		return nil, fmt.Errorf("failed to look up mission target: %w", err)
	}
	if target != nil {
		counterIntel = target.CounterIntel
	}

	resolution := espionage.ResolveOutcome(operative, spec, counterIntel, r.random.Float64())
	if err := mission.Resolve(resolution.Outcome, now); err != nil {
		return nil, err
	}
	if err := operative.Release(mission.ID(), resolution.SkillDelta); err != nil {
		return nil, err
	}
	if err := r.missions.Resolve(ctx, mission, operative); err != nil {
		return nil, err
	}

	logger := common.LoggerFromContext(ctx)
	if resolution.RewardResources > 0 {
		if _, err := r.ledger.Credit(ctx, ledger.Movement{
			ActorID:   mission.Owner(),
			Currency:  ledger.CurrencyResources,
			EntryType: ledger.EntryTypeMissionReward,
			Amount:    resolution.RewardResources,
			Reference: mission.ID(),
		}); err != nil {
			logger.Log(common.LevelError, "Failed to credit mission reward", map[string]interface{}{
				"mission_id": mission.ID(),
				"reward":     resolution.RewardResources,
				"error":      err.Error(),
			})
		}
	}

	r.notify(mission, operative, resolution, now)

	logger.Log(common.LevelInfo, "Mission resolved", map[string]interface{}{
		"mission_id": mission.ID(),
		"outcome":    string(resolution.Outcome),
		"chance":     resolution.SuccessChance,
		"roll":       resolution.Roll,
	})

	return &dtos.ResolutionDTO{
		Mission:         dtos.MissionToDTO(mission),
		Outcome:         string(resolution.Outcome),
		SuccessChance:   resolution.SuccessChance,
		Roll:            resolution.Roll,
		RewardResources: resolution.RewardResources,
		SkillAfter:      operative.Skill(),
	}, nil
}

func (r *MissionResolver) notify(mission *espionage.Mission, operative *espionage.Operative, resolution espionage.Resolution, now time.Time) {
	var batch notification.Batch
	batch.Add(notification.NewActorEvent(notification.EventMissionResolved, notification.PriorityNormal, now,
		map[string]interface{}{
			"mission_id":   mission.ID(),
			"mission_type": string(mission.MissionType()),
			"operative_id": operative.ID(),
			"outcome":      string(resolution.Outcome),
			"reward":       resolution.RewardResources,
		}, mission.Owner()))

	if resolution.Outcome == espionage.OutcomeDetected {
		batch.Add(notification.NewActorEvent(notification.EventOperativeDetected, notification.PriorityHigh, now,
			map[string]interface{}{
				"mission_type": string(mission.MissionType()),
				"origin":       mission.Owner().String(),
			}, mission.TargetID()))
	}
	batch.Flush(r.emitter)
}
