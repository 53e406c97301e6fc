package actor

import (
	"math"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// Position is an actor's location on the world grid
type Position struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance between two positions
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

// Actor is the collaborator record the core reads for gating and targeting:
// progression level, group affiliation, protection window and defensive ratings.
// Balances live here as well but are only mutated through the ledger.
type Actor struct {
	ID             shared.ActorID
	DisplayName    string
	Level          int
	GroupID        string
	GroupLevel     int
	ResearchPoints int
	Resources      int
	ProtectedUntil *time.Time
	Position       Position
	Hardening      int
	CounterIntel   int
	CreatedAt      time.Time
}

// NewActor creates an actor at level 1 with empty balances
func NewActor(id shared.ActorID, displayName string, createdAt time.Time) *Actor {
	if displayName == "" {
		displayName = id.String()
	}
	return &Actor{
		ID:          id,
		DisplayName: displayName,
		Level:       1,
		CreatedAt:   createdAt,
	}
}

// IsProtected reports whether the actor's protection window covers now
func (a *Actor) IsProtected(now time.Time) bool {
	return a.ProtectedUntil != nil && now.Before(*a.ProtectedUntil)
}

// SharesGroupWith reports whether both actors belong to the same non-empty group
func (a *Actor) SharesGroupWith(other *Actor) bool {
	return a.GroupID != "" && a.GroupID == other.GroupID
}
