package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// GormActorRepository implements the actor collaborator ports over the actors
// table: profiles, gate lookups and the point/resource ledger.
type GormActorRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormActorRepository creates a new GORM actor repository
func NewGormActorRepository(db *gorm.DB, clock shared.Clock) *GormActorRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormActorRepository{db: db, clock: clock}
}

// FindByID retrieves an actor by ID
func (r *GormActorRepository) FindByID(ctx context.Context, id shared.ActorID) (*actor.Actor, error) {
	var model ActorModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(shared.ReasonActorNotFound, "actor %s not found", id)
		}
		return nil, fmt.Errorf("failed to find actor: %w", result.Error)
	}
	return modelToActor(&model)
}

// FindByGroup lists every member of a group
func (r *GormActorRepository) FindByGroup(ctx context.Context, groupID string) ([]*actor.Actor, error) {
	if groupID == "" {
		return nil, nil
	}

	var models []ActorModel
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	actors := make([]*actor.Actor, 0, len(models))
	for i := range models {
		a, err := modelToActor(&models[i])
		if err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	return actors, nil
}

// Add persists a new actor including its opening balances
func (r *GormActorRepository) Add(ctx context.Context, a *actor.Actor) error {
	model := actorToModel(a)
	model.UpdatedAt = r.clock.Now()
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add actor: %w", err)
	}
	return nil
}

// UpdateProfile writes the non-balance fields of an actor
func (r *GormActorRepository) UpdateProfile(ctx context.Context, a *actor.Actor) error {
	result := r.db.WithContext(ctx).
		Model(&ActorModel{}).
		Where("id = ?", a.ID.String()).
		Updates(map[string]interface{}{
			"display_name":    a.DisplayName,
			"level":           a.Level,
			"group_id":        a.GroupID,
			"group_level":     a.GroupLevel,
			"protected_until": a.ProtectedUntil,
			"position_x":      a.Position.X,
			"position_y":      a.Position.Y,
			"hardening":       a.Hardening,
			"counter_intel":   a.CounterIntel,
			"updated_at":      r.clock.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update actor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(shared.ReasonActorNotFound, "actor %s not found", a.ID)
	}
	return nil
}

// Profile implements targeting.Directory and espionage.TargetDirectory.
// A missing actor is reported as (nil, nil).
func (r *GormActorRepository) Profile(ctx context.Context, id shared.ActorID) (*actor.Actor, error) {
	a, err := r.FindByID(ctx, id)
	if shared.IsNotFound(err) {
		return nil, nil
	}
	return a, err
}

// GatesFor implements research.GateProvider
func (r *GormActorRepository) GatesFor(ctx context.Context, id shared.ActorID) (research.Gates, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return research.Gates{}, err
	}
	return research.Gates{ActorLevel: a.Level, GroupLevel: a.GroupLevel}, nil
}

// Balance implements ledger.Ledger
func (r *GormActorRepository) Balance(ctx context.Context, id shared.ActorID, currency ledger.Currency) (int, error) {
	column, err := balanceColumn(currency)
	if err != nil {
		return 0, err
	}
	return r.readBalance(r.db.WithContext(ctx), id, column)
}

// Debit implements ledger.Ledger. The guarded UPDATE never lets a balance go
// negative, so two concurrent debits cannot both spend the same points.
func (r *GormActorRepository) Debit(ctx context.Context, m ledger.Movement) (*ledger.Entry, error) {
	if m.Amount <= 0 {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "debit amount must be positive, got %d", m.Amount)
	}
	column, err := balanceColumn(m.Currency)
	if err != nil {
		return nil, err
	}

	var entry *ledger.Entry
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ActorModel{}).
			Where("id = ? AND "+column+" >= ?", m.ActorID.String(), m.Amount).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" - ?", m.Amount),
				"updated_at": r.clock.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to debit %s: %w", m.Currency, result.Error)
		}
		if result.RowsAffected == 0 {
			balance, err := r.readBalance(tx, m.ActorID, column)
			if err != nil {
				return err
			}
			return shared.NewPreconditionError(ledger.InsufficientBalanceReason(m.Currency),
				"%s balance %d is below %d", m.Currency, balance, m.Amount).
				WithDetail("balance", balance).
				WithDetail("required", m.Amount)
		}

		entry, err = r.appendEntry(tx, m, -m.Amount, column)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Credit implements ledger.Ledger
func (r *GormActorRepository) Credit(ctx context.Context, m ledger.Movement) (*ledger.Entry, error) {
	if m.Amount <= 0 {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "credit amount must be positive, got %d", m.Amount)
	}
	column, err := balanceColumn(m.Currency)
	if err != nil {
		return nil, err
	}

	var entry *ledger.Entry
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ActorModel{}).
			Where("id = ?", m.ActorID.String()).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" + ?", m.Amount),
				"updated_at": r.clock.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to credit %s: %w", m.Currency, result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(shared.ReasonActorNotFound, "actor %s not found", m.ActorID)
		}

		entry, err = r.appendEntry(tx, m, m.Amount, column)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindByActor implements ledger.EntryRepository, newest first
func (r *GormActorRepository) FindByActor(ctx context.Context, id shared.ActorID, opts ledger.QueryOptions) ([]*ledger.Entry, error) {
	query := r.db.WithContext(ctx).Where("actor_id = ?", id.String())
	if opts.Currency != nil {
		query = query.Where("currency = ?", string(*opts.Currency))
	}
	if opts.Since != nil {
		query = query.Where("created_at >= ?", *opts.Since)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []LedgerEntryModel
	if err := query.Order("created_at DESC, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]*ledger.Entry, 0, len(models))
	for _, m := range models {
		actorID, err := shared.NewActorID(m.ActorID)
		if err != nil {
			return nil, fmt.Errorf("invalid actor id in ledger entry %s: %w", m.ID, err)
		}
		entries = append(entries, ledger.ReconstructEntry(
			m.ID, actorID, ledger.Currency(m.Currency), ledger.EntryType(m.EntryType),
			m.Amount, m.BalanceAfter, m.Reference, m.CreatedAt,
		))
	}
	return entries, nil
}

func (r *GormActorRepository) appendEntry(tx *gorm.DB, m ledger.Movement, signed int, column string) (*ledger.Entry, error) {
	balance, err := r.readBalance(tx, m.ActorID, column)
	if err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(m.ActorID, m.Currency, m.EntryType, signed, balance, m.Reference, r.clock.Now())
	if err != nil {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "%s", err.Error())
	}

	model := &LedgerEntryModel{
		ID:           entry.ID(),
		ActorID:      entry.ActorID().String(),
		Currency:     string(entry.Currency()),
		EntryType:    string(entry.EntryType()),
		Amount:       entry.Amount(),
		BalanceAfter: entry.BalanceAfter(),
		Reference:    entry.Reference(),
		CreatedAt:    entry.CreatedAt(),
	}
	if err := tx.Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return entry, nil
}

func (r *GormActorRepository) readBalance(db *gorm.DB, id shared.ActorID, column string) (int, error) {
	var balances []int
	if err := db.Model(&ActorModel{}).Where("id = ?", id.String()).Pluck(column, &balances).Error; err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	if len(balances) == 0 {
		return 0, shared.NewNotFoundError(shared.ReasonActorNotFound, "actor %s not found", id)
	}
	return balances[0], nil
}

func balanceColumn(currency ledger.Currency) (string, error) {
	switch currency {
	case ledger.CurrencyResearchPoints:
		return "research_points", nil
	case ledger.CurrencyResources:
		return "resources", nil
	default:
		return "", shared.NewValidationError(shared.ReasonInvalidArgument, "unknown currency %q", currency)
	}
}

func modelToActor(model *ActorModel) (*actor.Actor, error) {
	id, err := shared.NewActorID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id in database: %w", err)
	}
	return &actor.Actor{
		ID:             id,
		DisplayName:    model.DisplayName,
		Level:          model.Level,
		GroupID:        model.GroupID,
		GroupLevel:     model.GroupLevel,
		ResearchPoints: model.ResearchPoints,
		Resources:      model.Resources,
		ProtectedUntil: model.ProtectedUntil,
		Position:       actor.Position{X: model.PositionX, Y: model.PositionY},
		Hardening:      model.Hardening,
		CounterIntel:   model.CounterIntel,
		CreatedAt:      model.CreatedAt,
	}, nil
}

func actorToModel(a *actor.Actor) *ActorModel {
	return &ActorModel{
		ID:             a.ID.String(),
		DisplayName:    a.DisplayName,
		Level:          a.Level,
		GroupID:        a.GroupID,
		GroupLevel:     a.GroupLevel,
		ResearchPoints: a.ResearchPoints,
		Resources:      a.Resources,
		ProtectedUntil: a.ProtectedUntil,
		PositionX:      a.Position.X,
		PositionY:      a.Position.Y,
		Hardening:      a.Hardening,
		CounterIntel:   a.CounterIntel,
		CreatedAt:      a.CreatedAt,
	}
}
