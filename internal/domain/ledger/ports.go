package ledger

import (
	"context"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// Movement describes one requested balance change
type Movement struct {
	ActorID   shared.ActorID
	Currency  Currency
	EntryType EntryType
	Amount    int // always positive; direction comes from Debit/Credit
	Reference string
}

// Ledger is the economy collaborator that owns actor balances.
// Debit fails with INSUFFICIENT_POINTS or INSUFFICIENT_RESOURCES and leaves the balance untouched.
type Ledger interface {
	Balance(ctx context.Context, actorID shared.ActorID, currency Currency) (int, error)
	Debit(ctx context.Context, movement Movement) (*Entry, error)
	Credit(ctx context.Context, movement Movement) (*Entry, error)
}

// EntryRepository reads the audit trail written by the ledger
type EntryRepository interface {
	FindByActor(ctx context.Context, actorID shared.ActorID, opts QueryOptions) ([]*Entry, error)
}

// QueryOptions defines filtering and pagination options for entry queries
type QueryOptions struct {
	Currency *Currency
	Since    *time.Time
	Limit    int
	Offset   int
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{Limit: 50}
}

// InsufficientBalanceReason maps a currency to the failure reason its debit reports
func InsufficientBalanceReason(currency Currency) shared.Reason {
	if currency == CurrencyResearchPoints {
		return shared.ReasonInsufficientPoints
	}
	return shared.ReasonInsufficientResources
}
