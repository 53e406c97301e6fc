package queries

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// CheckResearchQuery asks whether an actor could start a tech right now
type CheckResearchQuery struct {
	ActorID shared.ActorID
	TechID  string
}

// CheckResearchResponse carries the verdict. Reason is empty when CanStart is true.
type CheckResearchResponse struct {
	TechID   string
	CanStart bool
	Reason   string
	Message  string
}

// CheckResearchHandler runs CanStart against the live balance and gates
type CheckResearchHandler struct {
	states  research.ResearchStateRepository
	catalog *research.Catalog
	gates   research.GateProvider
	ledger  ledger.Ledger
}

// NewCheckResearchHandler creates a new check research handler
func NewCheckResearchHandler(states research.ResearchStateRepository, catalog *research.Catalog, gates research.GateProvider, ledgerPort ledger.Ledger) *CheckResearchHandler {
	return &CheckResearchHandler{states: states, catalog: catalog, gates: gates, ledger: ledgerPort}
}

// Handle executes the check research query. A failed precondition is a
// verdict, not an error; only unknown techs and I/O failures are returned as errors.
func (h *CheckResearchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*CheckResearchQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	state, err := h.states.FindOrCreate(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}
	balance, err := h.ledger.Balance(ctx, query.ActorID, ledger.CurrencyResearchPoints)
	if err != nil {
		return nil, err
	}
	gates, err := h.gates.GatesFor(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}

	resp := &CheckResearchResponse{TechID: query.TechID, CanStart: true}
	if err := state.CanStart(h.catalog, query.TechID, balance, gates); err != nil {
		if shared.KindOf(err) != shared.KindPrecondition {
			return nil, err
		}
		resp.CanStart = false
		resp.Reason = shared.ReasonOf(err).String()
		resp.Message = err.Error()
	}
	return resp, nil
}

// ListTechsQuery returns the catalog in topological order
type ListTechsQuery struct{}

// ListTechsResponse contains the catalog entries
type ListTechsResponse struct {
	Techs []research.TechDefinition
}

// ListTechsHandler handles the list techs query
type ListTechsHandler struct {
	catalog *research.Catalog
}

func NewListTechsHandler(catalog *research.Catalog) *ListTechsHandler {
	return &ListTechsHandler{catalog: catalog}
}

// Handle executes the list techs query
func (h *ListTechsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListTechsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return &ListTechsResponse{Techs: h.catalog.All()}, nil
}
