package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

const defaultImpactBatch = 200

// ProcessImpactsCommand lands every LAUNCHED weapon whose impact time has passed.
// A zero Now means the handler's clock.
type ProcessImpactsCommand struct {
	Now   time.Time
	Limit int
}

// ProcessImpactsResponse summarises one sweep. Skipped counts weapons another
// worker transitioned first.
// ProcessImpactsResponse summarises one sweep. EffectFailed weapons landed
// (and are included in Impacted) but their damage could not be applied.
type ProcessImpactsResponse struct {
	Due          int
	Impacted     int
	EffectFailed int
	Skipped      int
	Failed       int
}

// effectError marks a weapon whose IMPACTED state is committed but whose
// effect application failed
type effectError struct{ cause error }

func (e *effectError) Error() string { return "impact recorded but effect failed: " + e.cause.Error() }
func (e *effectError) Unwrap() error { return e.cause }

// ProcessImpactsHandler is the scheduled impact sweep
type ProcessImpactsHandler struct {
	weapons  weapon.WeaponRepository
	payloads *weapon.PayloadCatalog
	effects  weapon.EffectApplier
	emitter  notification.Emitter
	clock    shared.Clock
}

// NewProcessImpactsHandler creates a new impact sweep handler
func NewProcessImpactsHandler(
	weapons weapon.WeaponRepository,
	payloads *weapon.PayloadCatalog,
	effects weapon.EffectApplier,
	emitter notification.Emitter,
	clock shared.Clock,
) *ProcessImpactsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ProcessImpactsHandler{
		weapons:  weapons,
		payloads: payloads,
		effects:  effects,
		emitter:  emitter,
		clock:    clock,
	}
}

// Handle executes the impact sweep. Per-weapon failures are collected and
// joined so one bad record does not stop the rest of the batch.
func (h *ProcessImpactsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ProcessImpactsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	now := cmd.Now
	if now.IsZero() {
		now = h.clock.Now()
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultImpactBatch
	}

	due, err := h.weapons.FindDueImpacts(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find due impacts: %w", err)
	}

	logger := common.LoggerFromContext(ctx)
	resp := &ProcessImpactsResponse{Due: len(due)}
	var errs []error

	for _, w := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		impacted, err := h.land(ctx, w, now)
		var effectErr *effectError
		switch {
		case errors.As(err, &effectErr):
			resp.Impacted++
			resp.EffectFailed++
			errs = append(errs, fmt.Errorf("weapon %s: %w", w.ID(), err))
			logger.Log(common.LevelError, "Impact effect failed", map[string]interface{}{
				"weapon_id": w.ID(),
				"error":     err.Error(),
			})
		case err != nil:
			resp.Failed++
			errs = append(errs, fmt.Errorf("weapon %s: %w", w.ID(), err))
			logger.Log(common.LevelError, "Impact failed", map[string]interface{}{
				"weapon_id": w.ID(),
				"error":     err.Error(),
			})
		case impacted:
			resp.Impacted++
		default:
			resp.Skipped++
		}
	}

	if resp.Due > 0 {
		logger.Log(common.LevelInfo, "Impact sweep finished", map[string]interface{}{
			"due":           resp.Due,
			"impacted":      resp.Impacted,
			"effect_failed": resp.EffectFailed,
			"skipped":       resp.Skipped,
			"failed":        resp.Failed,
		})
	}

	return resp, errors.Join(errs...)
}

// land commits LAUNCHED -> IMPACTED and only then applies the effect, so a
// weapon lost to a concurrent worker never deals damage twice.
func (h *ProcessImpactsHandler) land(ctx context.Context, w *weapon.Weapon, now time.Time) (bool, error) {
	if err := w.MarkImpacted(now); err != nil {
		return false, err
	}
	if err := h.weapons.Transition(ctx, w, weapon.StatusLaunched); err != nil {
		if shared.IsConflict(err) {
			return false, nil
		}
		return false, err
	}

	spec, _ := h.payloads.Get(w.PayloadType())
	impact := weapon.Impact{
		WeaponID:    w.ID(),
		PayloadType: w.PayloadType(),
		Launcher:    w.Owner(),
		Target:      w.TargetID(),
		Damage:      spec.Damage,
		Splash:      spec.Splash,
		At:          now,
	}

	var effect weapon.ImpactEffect
	var effectErr error
	if h.effects != nil {
		effect, effectErr = h.effects.ApplyImpact(ctx, impact)
	}

	payload := map[string]interface{}{
		"weapon_id":    w.ID(),
		"payload_type": string(w.PayloadType()),
		"launcher":     w.Owner().String(),
		"target":       w.TargetID().String(),
		"units_hit":    effect.UnitsHit,
		"intercepted":  effect.Intercepted,
		"total_damage": effect.TotalDamage,
	}
	var batch notification.Batch
	batch.Add(
		notification.NewActorEvent(notification.EventWeaponImpacted, notification.PriorityCritical, now, payload, w.TargetID()),
		notification.NewActorEvent(notification.EventWeaponImpacted, notification.PriorityHigh, now, payload, w.Owner()),
	)
	batch.Flush(h.emitter)

	if effectErr != nil {
		return true, &effectError{cause: effectErr}
	}
	return true, nil
}
