package shared

import (
	"fmt"
	"strings"
)

const maxActorIDLength = 64

// ActorID is a value object identifying a player or group that owns records and issues commands
type ActorID struct {
	value string
}

// NewActorID creates a new ActorID value object
func NewActorID(id string) (ActorID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ActorID{}, NewValidationError(ReasonInvalidArgument, "actor_id cannot be empty")
	}
	if len(id) > maxActorIDLength {
		return ActorID{}, NewValidationError(ReasonInvalidArgument, "actor_id exceeds %d characters", maxActorIDLength)
	}
	return ActorID{value: id}, nil
}

// MustNewActorID creates a new ActorID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewActorID(id string) ActorID {
	actorID, err := NewActorID(id)
	if err != nil {
		panic(fmt.Sprintf("invalid actor id %q: %v", id, err))
	}
	return actorID
}

// String returns the raw identifier
func (a ActorID) String() string {
	return a.value
}

// Equals checks if two ActorIDs are equal
func (a ActorID) Equals(other ActorID) bool {
	return a.value == other.value
}

// IsZero checks if the ActorID is the zero value (uninitialized)
func (a ActorID) IsZero() bool {
	return a.value == ""
}
