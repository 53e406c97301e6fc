package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// GormResearchStateRepository stores one research record per actor
type GormResearchStateRepository struct {
	db      *gorm.DB
	catalog *research.Catalog
	clock   shared.Clock
}

// NewGormResearchStateRepository creates a repository that rebuilds derived
// sets against the given catalog on every load
func NewGormResearchStateRepository(db *gorm.DB, catalog *research.Catalog, clock shared.Clock) *GormResearchStateRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormResearchStateRepository{db: db, catalog: catalog, clock: clock}
}

// FindOrCreate loads the actor's research state, inserting an empty record on first access
func (r *GormResearchStateRepository) FindOrCreate(ctx context.Context, actorID shared.ActorID) (*research.ResearchState, error) {
	var model ResearchStateModel
	result := r.db.WithContext(ctx).Where("actor_id = ?", actorID.String()).First(&model)
	if result.Error == nil {
		return r.modelToState(&model)
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find research state: %w", result.Error)
	}

	state := research.NewResearchState(actorID, r.catalog, r.clock.Now())
	created, err := stateToModel(state)
	if err != nil {
		return nil, err
	}

	// A concurrent first access may have inserted the row already; reload in that case.
	insert := r.db.WithContext(ctx).Where("actor_id = ?", created.ActorID).FirstOrCreate(created)
	if insert.Error != nil {
		return nil, fmt.Errorf("failed to create research state: %w", insert.Error)
	}
	return r.modelToState(created)
}

// Save writes the state if nobody else has since the caller loaded it
func (r *GormResearchStateRepository) Save(ctx context.Context, state *research.ResearchState) error {
	model, err := stateToModel(state)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ResearchStateModel{}).
		Where("actor_id = ? AND version = ?", model.ActorID, state.Version()).
		Updates(map[string]interface{}{
			"completed":              model.Completed,
			"in_progress_tech":       model.InProgressTech,
			"in_progress_spent":      model.InProgressSpent,
			"in_progress_required":   model.InProgressRequired,
			"in_progress_started_at": model.InProgressStartedAt,
			"total_points_spent":     model.TotalPointsSpent,
			"version":                state.Version() + 1,
			"updated_at":             model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save research state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("research state", model.ActorID)
	}

	state.MarkPersisted()
	return nil
}

func (r *GormResearchStateRepository) modelToState(model *ResearchStateModel) (*research.ResearchState, error) {
	actorID, err := shared.NewActorID(model.ActorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id in research state: %w", err)
	}

	var completed []string
	if len(model.Completed) > 0 {
		if err := json.Unmarshal(model.Completed, &completed); err != nil {
			return nil, fmt.Errorf("failed to decode completed techs for %s: %w", model.ActorID, err)
		}
	}

	var inProgress *research.InProgress
	if model.InProgressTech != "" && model.InProgressStartedAt != nil {
		inProgress = &research.InProgress{
			TechID:         model.InProgressTech,
			PointsSpent:    model.InProgressSpent,
			PointsRequired: model.InProgressRequired,
			StartedAt:      *model.InProgressStartedAt,
		}
	}

	return research.ReconstructResearchState(
		actorID,
		completed,
		inProgress,
		model.TotalPointsSpent,
		model.Version,
		model.UpdatedAt,
		r.catalog,
	), nil
}

func stateToModel(state *research.ResearchState) (*ResearchStateModel, error) {
	completed, err := json.Marshal(state.Completed())
	if err != nil {
		return nil, fmt.Errorf("failed to encode completed techs: %w", err)
	}

	model := &ResearchStateModel{
		ActorID:          state.ActorID().String(),
		Completed:        datatypes.JSON(completed),
		TotalPointsSpent: state.TotalPointsSpent(),
		Version:          state.Version(),
		UpdatedAt:        state.UpdatedAt(),
	}
	if p := state.InProgress(); p != nil {
		startedAt := p.StartedAt
		model.InProgressTech = p.TechID
		model.InProgressSpent = p.PointsSpent
		model.InProgressRequired = p.PointsRequired
		model.InProgressStartedAt = &startedAt
	}
	return model, nil
}
