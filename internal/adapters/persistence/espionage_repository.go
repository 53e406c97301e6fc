package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// GormOperativeRepository implements espionage.OperativeRepository
type GormOperativeRepository struct {
	db *gorm.DB
}

func NewGormOperativeRepository(db *gorm.DB) *GormOperativeRepository {
	return &GormOperativeRepository{db: db}
}

func (r *GormOperativeRepository) Add(ctx context.Context, op *espionage.Operative) error {
	if err := r.db.WithContext(ctx).Create(operativeToModel(op)).Error; err != nil {
		return fmt.Errorf("failed to insert operative: %w", err)
	}
	return nil
}

// AddWithinCap locks the owner's actor row before counting so concurrent
// recruits for one owner are serialised. SQLite ignores the locking clause
// and serialises writers on its single connection instead.
func (r *GormOperativeRepository) AddWithinCap(ctx context.Context, op *espionage.Operative, cap int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner ActorModel
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", op.Owner().String()).
			First(&owner)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError(shared.ReasonActorNotFound, "actor %s not found", op.Owner())
			}
			return fmt.Errorf("failed to lock operative owner: %w", result.Error)
		}

		if cap > 0 {
			var owned int64
			if err := tx.Model(&OperativeModel{}).Where("owner = ?", op.Owner().String()).Count(&owned).Error; err != nil {
				return fmt.Errorf("failed to count operatives: %w", err)
			}
			if int(owned) >= cap {
				return shared.NewPreconditionError(shared.ReasonOperativeCapReached,
					"actor %s already commands %d operatives", op.Owner(), owned).
					WithDetail("cap", cap)
			}
		}

		if err := tx.Create(operativeToModel(op)).Error; err != nil {
			return fmt.Errorf("failed to insert operative: %w", err)
		}
		return nil
	})
}

func (r *GormOperativeRepository) ClaimIdle(ctx context.Context, op *espionage.Operative) error {
	result := r.db.WithContext(ctx).Model(&OperativeModel{}).
		Where("id = ? AND version = ? AND status = ?", op.ID(), op.Version(), string(espionage.OperativeIdle)).
		Update("version", op.Version()+1)
	if result.Error != nil {
		return fmt.Errorf("failed to claim operative: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewPreconditionError(shared.ReasonOperativeBusy,
			"operative %s was assigned concurrently", op.ID()).
			WithDetail("operative_id", op.ID())
	}
	op.MarkPersisted()
	return nil
}

func (r *GormOperativeRepository) FindByID(ctx context.Context, id string) (*espionage.Operative, error) {
	return findOperative(r.db.WithContext(ctx), id)
}

func (r *GormOperativeRepository) ListByOwner(ctx context.Context, owner shared.ActorID) ([]*espionage.Operative, error) {
	var models []OperativeModel
	if err := r.db.WithContext(ctx).
		Where("owner = ?", owner.String()).
		Order("recruited_at, id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list operatives: %w", err)
	}

	ops := make([]*espionage.Operative, 0, len(models))
	for i := range models {
		op, err := modelToOperative(&models[i])
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (r *GormOperativeRepository) CountByOwner(ctx context.Context, owner shared.ActorID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OperativeModel{}).Where("owner = ?", owner.String()).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count operatives: %w", err)
	}
	return int(count), nil
}

// GormMissionRepository implements espionage.MissionRepository. Start and
// Resolve touch the mission and its operative inside one transaction.
type GormMissionRepository struct {
	db *gorm.DB
}

func NewGormMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

func (r *GormMissionRepository) FindByID(ctx context.Context, id string) (*espionage.Mission, error) {
	var model MissionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(shared.ReasonMissionNotFound, "mission %s not found", id)
		}
		return nil, fmt.Errorf("failed to find mission: %w", result.Error)
	}
	return modelToMission(&model)
}

// ListByOperative returns an operative's missions, newest first
func (r *GormMissionRepository) ListByOperative(ctx context.Context, operativeID string) ([]*espionage.Mission, error) {
	return r.list(r.db.WithContext(ctx).Where("operative_id = ?", operativeID).Order("started_at DESC, id"))
}

// FindDue returns active missions whose completion time has passed
func (r *GormMissionRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*espionage.Mission, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND completes_at <= ?", string(espionage.MissionActive), now).
		Order("completes_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.list(query)
}

// FindActiveTargeting returns every active mission aimed at target
func (r *GormMissionRepository) FindActiveTargeting(ctx context.Context, target shared.ActorID) ([]*espionage.Mission, error) {
	return r.list(r.db.WithContext(ctx).
		Where("status = ? AND target_id = ?", string(espionage.MissionActive), target.String()).
		Order("started_at, id"))
}

// Start inserts the mission and claims the operative. Losing the claim to a
// concurrent start reports OPERATIVE_BUSY and rolls the insert back.
func (r *GormMissionRepository) Start(ctx context.Context, mission *espionage.Mission, op *espionage.Operative) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(missionToModel(mission)).Error; err != nil {
			return fmt.Errorf("failed to insert mission: %w", err)
		}

		result := tx.Model(&OperativeModel{}).
			Where("id = ? AND version = ? AND status = ?", op.ID(), op.Version(), string(espionage.OperativeIdle)).
			Updates(map[string]interface{}{
				"status":            string(op.Status()),
				"active_mission_id": op.ActiveMissionID(),
				"version":           op.Version() + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to claim operative: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewPreconditionError(shared.ReasonOperativeBusy,
				"operative %s was assigned concurrently", op.ID()).
				WithDetail("operative_id", op.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	op.MarkPersisted()
	return nil
}

// Resolve writes the resolved mission (stored status must still be ACTIVE)
// and the released operative in one transaction
func (r *GormMissionRepository) Resolve(ctx context.Context, mission *espionage.Mission, op *espionage.Operative) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&MissionModel{}).
			Where("id = ? AND version = ? AND status = ?", mission.ID(), mission.Version(), string(espionage.MissionActive)).
			Updates(map[string]interface{}{
				"status":      string(mission.Status()),
				"outcome":     string(mission.Outcome()),
				"resolved_at": mission.ResolvedAt(),
				"version":     mission.Version() + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to resolve mission: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("mission", mission.ID())
		}

		result = tx.Model(&OperativeModel{}).
			Where("id = ? AND version = ? AND status = ?", op.ID(), op.Version(), string(espionage.OperativeOnMission)).
			Updates(map[string]interface{}{
				"status":             string(op.Status()),
				"active_mission_id":  op.ActiveMissionID(),
				"skill":              op.Skill(),
				"missions_completed": op.MissionsCompleted(),
				"version":            op.Version() + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to release operative: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("operative", op.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	mission.MarkPersisted()
	op.MarkPersisted()
	return nil
}

func (r *GormMissionRepository) list(query *gorm.DB) ([]*espionage.Mission, error) {
	var models []MissionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	missions := make([]*espionage.Mission, 0, len(models))
	for i := range models {
		m, err := modelToMission(&models[i])
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, nil
}

func findOperative(db *gorm.DB, id string) (*espionage.Operative, error) {
	var model OperativeModel
	result := db.Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(shared.ReasonOperativeNotFound, "operative %s not found", id)
		}
		return nil, fmt.Errorf("failed to find operative: %w", result.Error)
	}
	return modelToOperative(&model)
}

func modelToOperative(model *OperativeModel) (*espionage.Operative, error) {
	owner, err := shared.NewActorID(model.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner on operative %s: %w", model.ID, err)
	}
	return espionage.ReconstructOperative(espionage.OperativeSnapshot{
		ID:                model.ID,
		Owner:             owner,
		Specialization:    espionage.Specialization(model.Specialization),
		Skill:             model.Skill,
		Status:            espionage.OperativeStatus(model.Status),
		ActiveMissionID:   model.ActiveMissionID,
		MissionsCompleted: model.MissionsCompleted,
		Version:           model.Version,
		RecruitedAt:       model.RecruitedAt,
	}), nil
}

func operativeToModel(op *espionage.Operative) *OperativeModel {
	s := op.Snapshot()
	return &OperativeModel{
		ID:                s.ID,
		Owner:             s.Owner.String(),
		Specialization:    string(s.Specialization),
		Skill:             s.Skill,
		Status:            string(s.Status),
		ActiveMissionID:   s.ActiveMissionID,
		MissionsCompleted: s.MissionsCompleted,
		Version:           s.Version,
		RecruitedAt:       s.RecruitedAt,
	}
}

func modelToMission(model *MissionModel) (*espionage.Mission, error) {
	owner, err := shared.NewActorID(model.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner on mission %s: %w", model.ID, err)
	}
	target, err := shared.NewActorID(model.TargetID)
	if err != nil {
		return nil, fmt.Errorf("invalid target on mission %s: %w", model.ID, err)
	}
	return espionage.ReconstructMission(espionage.MissionSnapshot{
		ID:          model.ID,
		OperativeID: model.OperativeID,
		Owner:       owner,
		MissionType: espionage.MissionType(model.MissionType),
		TargetID:    target,
		Status:      espionage.MissionStatus(model.Status),
		Outcome:     espionage.Outcome(model.Outcome),
		StartedAt:   model.StartedAt,
		CompletesAt: model.CompletesAt,
		ResolvedAt:  model.ResolvedAt,
		Version:     model.Version,
	}), nil
}

func missionToModel(m *espionage.Mission) *MissionModel {
	s := m.Snapshot()
	return &MissionModel{
		ID:          s.ID,
		OperativeID: s.OperativeID,
		Owner:       s.Owner.String(),
		MissionType: string(s.MissionType),
		TargetID:    s.TargetID.String(),
		Status:      string(s.Status),
		Outcome:     string(s.Outcome),
		StartedAt:   s.StartedAt,
		CompletesAt: s.CompletesAt,
		ResolvedAt:  s.ResolvedAt,
		Version:     s.Version,
	}
}
