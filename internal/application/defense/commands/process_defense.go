package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

const defaultDefenseBatch = 200

// ProcessDefenseCommand completes due repairs and ends expired cooldowns.
// A zero Now means the handler's clock.
type ProcessDefenseCommand struct {
	Now   time.Time
	Limit int
}

// ProcessDefenseResponse summarises one maintenance sweep
type ProcessDefenseResponse struct {
	RepairsCompleted int
	CooldownsEnded   int
	Skipped          int
	Failed           int
}

// ProcessDefenseHandler is the scheduled defense maintenance sweep
type ProcessDefenseHandler struct {
	units   defense.UnitRepository
	emitter notification.Emitter
	clock   shared.Clock
}

func NewProcessDefenseHandler(units defense.UnitRepository, emitter notification.Emitter, clock shared.Clock) *ProcessDefenseHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ProcessDefenseHandler{units: units, emitter: emitter, clock: clock}
}

// Handle executes the sweep with per-record isolation
func (h *ProcessDefenseHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ProcessDefenseCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	now := cmd.Now
	if now.IsZero() {
		now = h.clock.Now()
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultDefenseBatch
	}

	resp := &ProcessDefenseResponse{}
	var errs []error
	var batch notification.Batch

	repairs, err := h.units.FindDueRepairs(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find due repairs: %w", err)
	}
	for _, unit := range repairs {
		done, err := h.step(ctx, unit, func(u *defense.Unit) error { return u.CompleteRepair(now) })
		switch {
		case err != nil:
			resp.Failed++
			errs = append(errs, fmt.Errorf("unit %s: %w", unit.ID(), err))
		case done:
			resp.RepairsCompleted++
			batch.Add(notification.NewActorEvent(notification.EventRepairCompleted, notification.PriorityNormal, now,
				map[string]interface{}{"unit_id": unit.ID()}, unit.Owner()))
		default:
			resp.Skipped++
		}
	}

	cooled, err := h.units.FindExpiredCooldowns(ctx, now, limit)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to find expired cooldowns: %w", err))
	}
	for _, unit := range cooled {
		done, err := h.step(ctx, unit, func(u *defense.Unit) error { return u.EndCooldown(now) })
		switch {
		case err != nil:
			resp.Failed++
			errs = append(errs, fmt.Errorf("unit %s: %w", unit.ID(), err))
		case done:
			resp.CooldownsEnded++
		default:
			resp.Skipped++
		}
	}

	batch.Flush(h.emitter)

	if resp.RepairsCompleted+resp.CooldownsEnded+resp.Failed > 0 {
		common.LoggerFromContext(ctx).Log(common.LevelInfo, "Defense maintenance finished", map[string]interface{}{
			"repairs_completed": resp.RepairsCompleted,
			"cooldowns_ended":   resp.CooldownsEnded,
			"skipped":           resp.Skipped,
			"failed":            resp.Failed,
		})
	}

	return resp, errors.Join(errs...)
}

// step applies one transition; a conflict means another worker got there first
func (h *ProcessDefenseHandler) step(ctx context.Context, unit *defense.Unit, apply func(*defense.Unit) error) (bool, error) {
	if err := apply(unit); err != nil {
		return false, err
	}
	if err := h.units.Update(ctx, unit); err != nil {
		if shared.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
