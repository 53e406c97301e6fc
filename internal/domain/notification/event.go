package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// EventType names what happened
type EventType string

const (
	EventResearchStarted    EventType = "RESEARCH_STARTED"
	EventResearchCompleted  EventType = "RESEARCH_COMPLETED"
	EventResearchCancelled  EventType = "RESEARCH_CANCELLED"
	EventWeaponReady        EventType = "WEAPON_READY"
	EventWeaponLaunched     EventType = "WEAPON_LAUNCHED"
	EventWeaponImpacted     EventType = "WEAPON_IMPACTED"
	EventWeaponDismantled   EventType = "WEAPON_DISMANTLED"
	EventOperativeRecruited EventType = "OPERATIVE_RECRUITED"
	EventMissionStarted     EventType = "MISSION_STARTED"
	EventMissionResolved    EventType = "MISSION_RESOLVED"
	EventOperativeDetected  EventType = "OPERATIVE_DETECTED"
	EventSabotage           EventType = "SABOTAGE"
	EventHostilesRevealed   EventType = "HOSTILES_REVEALED"
	EventRepairStarted      EventType = "REPAIR_STARTED"
	EventRepairCompleted    EventType = "REPAIR_COMPLETED"
)

// Priority orders events for delivery and display
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityNormal   Priority = "NORMAL"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Scope decides who receives an event
type Scope string

const (
	ScopeActor  Scope = "ACTOR"
	ScopeGroup  Scope = "GROUP"
	ScopeGlobal Scope = "GLOBAL"
)

// Event is one notification handed to the emitter after a committed transition
type Event struct {
	ID         string
	Type       EventType
	Priority   Priority
	Scope      Scope
	Recipients []string
	Payload    map[string]interface{}
	OccurredAt time.Time
}

// NewActorEvent addresses an event to specific actors
func NewActorEvent(eventType EventType, priority Priority, occurredAt time.Time, payload map[string]interface{}, recipients ...shared.ActorID) Event {
	ids := make([]string, 0, len(recipients))
	seen := make(map[string]bool, len(recipients))
	for _, r := range recipients {
		if r.IsZero() || seen[r.String()] {
			continue
		}
		seen[r.String()] = true
		ids = append(ids, r.String())
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Priority:   priority,
		Scope:      ScopeActor,
		Recipients: ids,
		Payload:    payload,
		OccurredAt: occurredAt,
	}
}

// IsAddressedTo reports whether an actor should see the event
func (e Event) IsAddressedTo(actorID string) bool {
	if e.Scope == ScopeGlobal {
		return true
	}
	for _, r := range e.Recipients {
		if r == actorID {
			return true
		}
	}
	return false
}
