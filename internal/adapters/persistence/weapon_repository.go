package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// GormWeaponRepository implements weapon.WeaponRepository using GORM
type GormWeaponRepository struct {
	db *gorm.DB
}

// NewGormWeaponRepository creates a new GORM weapon repository
func NewGormWeaponRepository(db *gorm.DB) *GormWeaponRepository {
	return &GormWeaponRepository{db: db}
}

// Add inserts a freshly created weapon
func (r *GormWeaponRepository) Add(ctx context.Context, w *weapon.Weapon) error {
	model, err := weaponToModel(w)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert weapon: %w", err)
	}
	return nil
}

// FindByID retrieves a weapon by ID
func (r *GormWeaponRepository) FindByID(ctx context.Context, id string) (*weapon.Weapon, error) {
	var model WeaponModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(shared.ReasonWeaponNotFound, "weapon %s not found", id)
		}
		return nil, fmt.Errorf("failed to find weapon: %w", result.Error)
	}
	return modelToWeapon(&model)
}

// ListByOwner returns an owner's weapons, oldest first
func (r *GormWeaponRepository) ListByOwner(ctx context.Context, owner shared.ActorID) ([]*weapon.Weapon, error) {
	var models []WeaponModel
	if err := r.db.WithContext(ctx).
		Where("owner = ?", owner.String()).
		Order("created_at, id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list weapons: %w", err)
	}
	return modelsToWeapons(models)
}

// FindDueImpacts returns launched weapons whose impact time has passed,
// earliest first. Served by idx_weapons_due (status, impact_at).
func (r *GormWeaponRepository) FindDueImpacts(ctx context.Context, now time.Time, limit int) ([]*weapon.Weapon, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND impact_at <= ?", string(weapon.StatusLaunched), now).
		Order("impact_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []WeaponModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find due impacts: %w", err)
	}
	return modelsToWeapons(models)
}

// Transition writes the weapon's new state if the stored row still has the
// expected status and the version the caller loaded
func (r *GormWeaponRepository) Transition(ctx context.Context, w *weapon.Weapon, expected weapon.Status) error {
	model, err := weaponToModel(w)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&WeaponModel{}).
		Where("id = ? AND version = ? AND status = ?", model.ID, model.Version, string(expected)).
		Updates(map[string]interface{}{
			"components":    model.Components,
			"status":        model.Status,
			"target_id":     model.TargetID,
			"launched_at":   model.LaunchedAt,
			"impact_at":     model.ImpactAt,
			"impacted_at":   model.ImpactedAt,
			"dismantled_at": model.DismantledAt,
			"version":       model.Version + 1,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update weapon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("weapon", model.ID).WithDetail("expected_status", string(expected))
	}

	w.MarkPersisted()
	return nil
}

func modelsToWeapons(models []WeaponModel) ([]*weapon.Weapon, error) {
	weapons := make([]*weapon.Weapon, 0, len(models))
	for i := range models {
		w, err := modelToWeapon(&models[i])
		if err != nil {
			return nil, err
		}
		weapons = append(weapons, w)
	}
	return weapons, nil
}

func modelToWeapon(model *WeaponModel) (*weapon.Weapon, error) {
	owner, err := shared.NewActorID(model.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner on weapon %s: %w", model.ID, err)
	}

	var target shared.ActorID
	if model.TargetID != "" {
		if target, err = shared.NewActorID(model.TargetID); err != nil {
			return nil, fmt.Errorf("invalid target on weapon %s: %w", model.ID, err)
		}
	}

	var components []weapon.Component
	if len(model.Components) > 0 {
		if err := json.Unmarshal(model.Components, &components); err != nil {
			return nil, fmt.Errorf("failed to decode components for weapon %s: %w", model.ID, err)
		}
	}

	return weapon.ReconstructWeapon(weapon.WeaponSnapshot{
		ID:                model.ID,
		Owner:             owner,
		PayloadType:       weapon.PayloadType(model.PayloadType),
		Components:        components,
		Status:            weapon.Status(model.Status),
		TargetID:          target,
		LaunchedAt:        model.LaunchedAt,
		ImpactAt:          model.ImpactAt,
		ImpactedAt:        model.ImpactedAt,
		DismantledAt:      model.DismantledAt,
		ReservedResources: model.ReservedResources,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}), nil
}

func weaponToModel(w *weapon.Weapon) (*WeaponModel, error) {
	s := w.Snapshot()
	components, err := json.Marshal(s.Components)
	if err != nil {
		return nil, fmt.Errorf("failed to encode components: %w", err)
	}

	return &WeaponModel{
		ID:                s.ID,
		Owner:             s.Owner.String(),
		PayloadType:       string(s.PayloadType),
		Components:        datatypes.JSON(components),
		Status:            string(s.Status),
		TargetID:          s.TargetID.String(),
		LaunchedAt:        s.LaunchedAt,
		ImpactAt:          s.ImpactAt,
		ImpactedAt:        s.ImpactedAt,
		DismantledAt:      s.DismantledAt,
		ReservedResources: s.ReservedResources,
		Version:           s.Version,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}, nil
}
