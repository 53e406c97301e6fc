package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/actor/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// GetActorQuery loads one actor with balances
type GetActorQuery struct {
	ActorID shared.ActorID
}

// GetActorResponse contains the actor
type GetActorResponse struct {
	Actor dtos.ActorDTO
}

// GetActorHandler handles the get actor query
type GetActorHandler struct {
	actors actor.ActorRepository
}

func NewGetActorHandler(actors actor.ActorRepository) *GetActorHandler {
	return &GetActorHandler{actors: actors}
}

// Handle executes the get actor query
func (h *GetActorHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetActorQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	a, err := h.actors.FindByID(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}
	return &GetActorResponse{Actor: dtos.ActorToDTO(a)}, nil
}

// GetLedgerQuery pages through an actor's ledger entries, newest first
type GetLedgerQuery struct {
	ActorID  shared.ActorID
	Currency string
	Since    *time.Time
	Limit    int
	Offset   int
}

// GetLedgerResponse contains the entries
type GetLedgerResponse struct {
	Entries []dtos.EntryDTO
}

// GetLedgerHandler handles the get ledger query
type GetLedgerHandler struct {
	entries ledger.EntryRepository
}

func NewGetLedgerHandler(entries ledger.EntryRepository) *GetLedgerHandler {
	return &GetLedgerHandler{entries: entries}
}

// Handle executes the get ledger query
func (h *GetLedgerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetLedgerQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	opts := ledger.DefaultQueryOptions()
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	opts.Offset = query.Offset
	opts.Since = query.Since
	if query.Currency != "" {
		currency := ledger.Currency(query.Currency)
		if !currency.IsValid() {
			return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "unknown currency %q", query.Currency)
		}
		opts.Currency = &currency
	}

	entries, err := h.entries.FindByActor(ctx, query.ActorID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	out := make([]dtos.EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dtos.EntryToDTO(e))
	}
	return &GetLedgerResponse{Entries: out}, nil
}
