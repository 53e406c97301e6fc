package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// GormDefenseUnitRepository implements defense.UnitRepository using GORM
type GormDefenseUnitRepository struct {
	db *gorm.DB
}

// NewGormDefenseUnitRepository creates a new GORM defense unit repository
func NewGormDefenseUnitRepository(db *gorm.DB) *GormDefenseUnitRepository {
	return &GormDefenseUnitRepository{db: db}
}

// Add inserts a newly deployed unit
func (r *GormDefenseUnitRepository) Add(ctx context.Context, unit *defense.Unit) error {
	if err := r.db.WithContext(ctx).Create(unitToModel(unit)).Error; err != nil {
		return fmt.Errorf("failed to insert defense unit: %w", err)
	}
	return nil
}

// FindByID retrieves a unit by ID
func (r *GormDefenseUnitRepository) FindByID(ctx context.Context, id string) (*defense.Unit, error) {
	var model DefenseUnitModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(shared.ReasonDefenseUnitNotFound, "defense unit %s not found", id)
		}
		return nil, fmt.Errorf("failed to find defense unit: %w", result.Error)
	}
	return modelToUnit(&model)
}

// ListByOwner returns an owner's units in deployment order
func (r *GormDefenseUnitRepository) ListByOwner(ctx context.Context, owner shared.ActorID) ([]*defense.Unit, error) {
	return r.list(r.db.WithContext(ctx).Where("owner = ?", owner.String()).Order("deployed_at, id"))
}

// ListByOwners returns the units of several owners, used for splash damage
func (r *GormDefenseUnitRepository) ListByOwners(ctx context.Context, owners []shared.ActorID) ([]*defense.Unit, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(owners))
	for _, o := range owners {
		ids = append(ids, o.String())
	}
	return r.list(r.db.WithContext(ctx).Where("owner IN ?", ids).Order("owner, deployed_at, id"))
}

// FindDueRepairs returns repairing units whose completion time has passed
func (r *GormDefenseUnitRepository) FindDueRepairs(ctx context.Context, now time.Time, limit int) ([]*defense.Unit, error) {
	query := r.db.WithContext(ctx).
		Where("repairing = ? AND repair_completes_at <= ?", true, now).
		Order("repair_completes_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.list(query)
}

// FindExpiredCooldowns returns cooling-down units ready to become active again
func (r *GormDefenseUnitRepository) FindExpiredCooldowns(ctx context.Context, now time.Time, limit int) ([]*defense.Unit, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND cooldown_until <= ?", string(defense.StatusCooldown), now).
		Order("cooldown_until, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.list(query)
}

// Update writes the unit if the stored version still matches
func (r *GormDefenseUnitRepository) Update(ctx context.Context, unit *defense.Unit) error {
	model := unitToModel(unit)
	result := r.db.WithContext(ctx).
		Model(&DefenseUnitModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"health":              model.Health,
			"status":              model.Status,
			"repairing":           model.Repairing,
			"repair_started_at":   model.RepairStartedAt,
			"repair_completes_at": model.RepairCompletesAt,
			"cooldown_until":      model.CooldownUntil,
			"version":             model.Version + 1,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update defense unit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("defense unit", model.ID)
	}

	unit.MarkPersisted()
	return nil
}

func (r *GormDefenseUnitRepository) list(query *gorm.DB) ([]*defense.Unit, error) {
	var models []DefenseUnitModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list defense units: %w", err)
	}

	units := make([]*defense.Unit, 0, len(models))
	for i := range models {
		u, err := modelToUnit(&models[i])
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func modelToUnit(model *DefenseUnitModel) (*defense.Unit, error) {
	owner, err := shared.NewActorID(model.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner on defense unit %s: %w", model.ID, err)
	}
	return defense.ReconstructUnit(defense.UnitSnapshot{
		ID:                model.ID,
		Owner:             owner,
		Health:            model.Health,
		Status:            defense.Status(model.Status),
		Repairing:         model.Repairing,
		RepairStartedAt:   model.RepairStartedAt,
		RepairCompletesAt: model.RepairCompletesAt,
		CooldownUntil:     model.CooldownUntil,
		Version:           model.Version,
		DeployedAt:        model.DeployedAt,
		UpdatedAt:         model.UpdatedAt,
	}), nil
}

func unitToModel(unit *defense.Unit) *DefenseUnitModel {
	s := unit.Snapshot()
	return &DefenseUnitModel{
		ID:                s.ID,
		Owner:             s.Owner.String(),
		Health:            s.Health,
		Status:            string(s.Status),
		Repairing:         s.Repairing,
		RepairStartedAt:   s.RepairStartedAt,
		RepairCompletesAt: s.RepairCompletesAt,
		CooldownUntil:     s.CooldownUntil,
		Version:           s.Version,
		DeployedAt:        s.DeployedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
