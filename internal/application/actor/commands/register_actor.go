package commands

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/actor/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// RegisterActorCommand represents a command to register a new actor.
// Opening balances are credited as GRANT entries so the ledger stays complete.
type RegisterActorCommand struct {
	ActorID        string
	DisplayName    string
	Level          int
	GroupID        string
	GroupLevel     int
	Position       actor.Position
	ResearchPoints int
	Resources      int
}

// RegisterActorResponse represents the result of registering an actor
type RegisterActorResponse struct {
	Actor dtos.ActorDTO
}

// RegisterActorHandler handles the RegisterActor command
type RegisterActorHandler struct {
	actors actor.ActorRepository
	ledger ledger.Ledger
	clock  shared.Clock
}

// NewRegisterActorHandler creates a new RegisterActorHandler
func NewRegisterActorHandler(actors actor.ActorRepository, ledgerPort ledger.Ledger, clock shared.Clock) *RegisterActorHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RegisterActorHandler{actors: actors, ledger: ledgerPort, clock: clock}
}

// Handle executes the RegisterActor command
func (h *RegisterActorHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RegisterActorCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RegisterActorCommand")
	}

	id, err := shared.NewActorID(cmd.ActorID)
	if err != nil {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "%s", err.Error())
	}
	if cmd.ResearchPoints < 0 || cmd.Resources < 0 {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "opening balances cannot be negative")
	}

	a := actor.NewActor(id, cmd.DisplayName, h.clock.Now())
	if cmd.Level > 0 {
		a.Level = cmd.Level
	}
	a.GroupID = cmd.GroupID
	a.GroupLevel = cmd.GroupLevel
	a.Position = cmd.Position

	if err := h.actors.Add(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save actor: %w", err)
	}

	grants := []struct {
		currency ledger.Currency
		amount   int
	}{
		{ledger.CurrencyResearchPoints, cmd.ResearchPoints},
		{ledger.CurrencyResources, cmd.Resources},
	}
	for _, g := range grants {
		if g.amount == 0 {
			continue
		}
		if _, err := h.ledger.Credit(ctx, ledger.Movement{
			ActorID:   id,
			Currency:  g.currency,
			EntryType: ledger.EntryTypeGrant,
			Amount:    g.amount,
			Reference: "registration",
		}); err != nil {
			return nil, fmt.Errorf("failed to credit opening balance: %w", err)
		}
	}

	saved, err := h.actors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RegisterActorResponse{Actor: dtos.ActorToDTO(saved)}, nil
}

// GrantCommand credits an actor out of band, e.g. from an admin tool
type GrantCommand struct {
	ActorID   shared.ActorID
	Currency  string
	Amount    int
	Reference string
}

// GrantResponse carries the resulting ledger line
type GrantResponse struct {
	Entry dtos.EntryDTO
}

// GrantHandler handles the Grant command
type GrantHandler struct {
	ledger ledger.Ledger
}

func NewGrantHandler(ledgerPort ledger.Ledger) *GrantHandler {
	return &GrantHandler{ledger: ledgerPort}
}

// Handle executes the Grant command
func (h *GrantHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*GrantCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GrantCommand")
	}

	currency := ledger.Currency(cmd.Currency)
	if !currency.IsValid() {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "unknown currency %q", cmd.Currency)
	}
	if cmd.Amount <= 0 {
		return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "grant amount must be positive, got %d", cmd.Amount)
	}

	entry, err := h.ledger.Credit(ctx, ledger.Movement{
		ActorID:   cmd.ActorID,
		Currency:  currency,
		EntryType: ledger.EntryTypeGrant,
		Amount:    cmd.Amount,
		Reference: cmd.Reference,
	})
	if err != nil {
		return nil, err
	}
	return &GrantResponse{Entry: dtos.EntryToDTO(entry)}, nil
}
