package espionage

import (
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// MissionStatus is a mission's lifecycle stage
type MissionStatus string

const (
	MissionActive   MissionStatus = "ACTIVE"
	MissionComplete MissionStatus = "COMPLETE"
	MissionFailed   MissionStatus = "FAILED"
)

// Outcome is the resolved result of a mission
type Outcome string

const (
	OutcomeSuccess  Outcome = "SUCCESS"
	OutcomeDetected Outcome = "DETECTED"
	OutcomeFailure  Outcome = "FAILURE"
)

// Mission is a timed covert task. ACTIVE moves to COMPLETE or FAILED exactly once.
type Mission struct {
	id          string
	operativeID string
	owner       shared.ActorID
	missionType MissionType
	targetID    shared.ActorID
	status      MissionStatus
	outcome     Outcome
	startedAt   time.Time
	completesAt time.Time
	resolvedAt  *time.Time
	version     int
}

func NewMission(id string, operative *Operative, spec MissionTypeSpec, target shared.ActorID, now time.Time) *Mission {
	return &Mission{
		id:          id,
		operativeID: operative.ID(),
		owner:       operative.Owner(),
		missionType: spec.Type,
		targetID:    target,
		status:      MissionActive,
		startedAt:   now,
		completesAt: now.Add(spec.Duration),
	}
}

// MissionSnapshot carries persisted fields for reconstruction
type MissionSnapshot struct {
	ID          string
	OperativeID string
	Owner       shared.ActorID
	MissionType MissionType
	TargetID    shared.ActorID
	Status      MissionStatus
	Outcome     Outcome
	StartedAt   time.Time
	CompletesAt time.Time
	ResolvedAt  *time.Time
	Version     int
}

func ReconstructMission(s MissionSnapshot) *Mission {
	return &Mission{
		id:          s.ID,
		operativeID: s.OperativeID,
		owner:       s.Owner,
		missionType: s.MissionType,
		targetID:    s.TargetID,
		status:      s.Status,
		outcome:     s.Outcome,
		startedAt:   s.StartedAt,
		completesAt: s.CompletesAt,
		resolvedAt:  s.ResolvedAt,
		version:     s.Version,
	}
}

func (m *Mission) Snapshot() MissionSnapshot {
	return MissionSnapshot{
		ID:          m.id,
		OperativeID: m.operativeID,
		Owner:       m.owner,
		MissionType: m.missionType,
		TargetID:    m.targetID,
		Status:      m.status,
		Outcome:     m.outcome,
		StartedAt:   m.startedAt,
		CompletesAt: m.completesAt,
		ResolvedAt:  m.resolvedAt,
		Version:     m.version,
	}
}

// IsDue reports whether an ACTIVE mission has reached its completion time
func (m *Mission) IsDue(now time.Time) bool {
	return m.status == MissionActive && !now.Before(m.completesAt)
}

// CheckCompletable validates an explicit completion request
func (m *Mission) CheckCompletable(actor shared.ActorID, now time.Time) error {
	if !m.owner.Equals(actor) {
		return shared.NewPreconditionError(shared.ReasonNotOwner, "actor %s does not own mission %s", actor, m.id)
	}
	if m.status != MissionActive {
		return shared.NewPreconditionError(shared.ReasonWrongStatus, "mission %s is already %s", m.id, m.status)
	}
	if now.Before(m.completesAt) {
		return shared.NewPreconditionError(shared.ReasonMissionNotDue,
			"mission %s completes at %s", m.id, m.completesAt.Format(time.RFC3339))
	}
	return nil
}

// Resolve records the outcome. SUCCESS completes the mission; anything else fails it.
func (m *Mission) Resolve(outcome Outcome, now time.Time) error {
	if m.status != MissionActive {
		return shared.NewPreconditionError(shared.ReasonWrongStatus, "mission %s is already %s", m.id, m.status)
	}
	m.outcome = outcome
	if outcome == OutcomeSuccess {
		m.status = MissionComplete
	} else {
		m.status = MissionFailed
	}
	m.resolvedAt = &now
	return nil
}

func (m *Mission) ID() string { return m.id }
func (m *Mission) OperativeID() string { return m.operativeID }
func (m *Mission) Owner() shared.ActorID { return m.owner }
func (m *Mission) MissionType() MissionType { return m.missionType }
func (m *Mission) TargetID() shared.ActorID { return m.targetID }
func (m *Mission) Status() MissionStatus { return m.status }
func (m *Mission) Outcome() Outcome { return m.outcome }
func (m *Mission) StartedAt() time.Time { return m.startedAt }
func (m *Mission) CompletesAt() time.Time { return m.completesAt }
func (m *Mission) ResolvedAt() *time.Time { return m.resolvedAt }
func (m *Mission) Version() int { return m.version }

// MarkPersisted advances the version after a successful conditional save
func (m *Mission) MarkPersisted() {
	m.version++
}
