package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// Entry is an immutable record of a single balance movement.
// Amount is negative for debits and positive for credits.
type Entry struct {
	id           string
	actorID      shared.ActorID
	currency     Currency
	entryType    EntryType
	amount       int
	balanceAfter int
	reference    string
	createdAt    time.Time
}

// NewEntry creates a new entry with a generated id
func NewEntry(
	actorID shared.ActorID,
	currency Currency,
	entryType EntryType,
	amount int,
	balanceAfter int,
	reference string,
	createdAt time.Time,
) (*Entry, error) {
	if actorID.IsZero() {
		return nil, fmt.Errorf("actor_id cannot be zero")
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid currency: %s", currency)
	}
	if !entryType.IsValid() {
		return nil, fmt.Errorf("invalid entry type: %s", entryType)
	}
	if amount == 0 {
		return nil, fmt.Errorf("amount cannot be zero")
	}
	if balanceAfter < 0 {
		return nil, fmt.Errorf("balance after cannot be negative: %d", balanceAfter)
	}

	return &Entry{
		id:           uuid.New().String(),
		actorID:      actorID,
		currency:     currency,
		entryType:    entryType,
		amount:       amount,
		balanceAfter: balanceAfter,
		reference:    reference,
		createdAt:    createdAt,
	}, nil
}

// ReconstructEntry rebuilds an entry from persistence without validation
func ReconstructEntry(
	id string,
	actorID shared.ActorID,
	currency Currency,
	entryType EntryType,
	amount int,
	balanceAfter int,
	reference string,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:           id,
		actorID:      actorID,
		currency:     currency,
		entryType:    entryType,
		amount:       amount,
		balanceAfter: balanceAfter,
		reference:    reference,
		createdAt:    createdAt,
	}
}

func (e *Entry) ID() string { return e.id }
func (e *Entry) ActorID() shared.ActorID { return e.actorID }
func (e *Entry) Currency() Currency { return e.currency }
func (e *Entry) EntryType() EntryType { return e.entryType }
func (e *Entry) Amount() int { return e.amount }
func (e *Entry) BalanceAfter() int { return e.balanceAfter }
func (e *Entry) Reference() string { return e.reference }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }
func (e *Entry) IsDebit() bool { return e.amount < 0 }
