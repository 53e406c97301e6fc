package espionage

import (
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

const (
	MinSkill = 1
	MaxSkill = 100
)

// OperativeStatus tracks whether an operative can take an action
type OperativeStatus string

const (
	OperativeIdle      OperativeStatus = "IDLE"
	OperativeOnMission OperativeStatus = "ON_MISSION"
)

// Operative is a covert agent bound to one actor
type Operative struct {
	id                string
	owner             shared.ActorID
	specialization    Specialization
	skill             int
	status            OperativeStatus
	activeMissionID   string
	missionsCompleted int
	version           int
	recruitedAt       time.Time
}

func NewOperative(id string, owner shared.ActorID, spec SpecializationSpec, now time.Time) *Operative {
	return &Operative{
		id:             id,
		owner:          owner,
		specialization: spec.Name,
		skill:          clampSkill(spec.BaseSkill),
		status:         OperativeIdle,
		recruitedAt:    now,
	}
}

// OperativeSnapshot carries persisted fields for reconstruction
type OperativeSnapshot struct {
	ID                string
	Owner             shared.ActorID
	Specialization    Specialization
	Skill             int
	Status            OperativeStatus
	ActiveMissionID   string
	MissionsCompleted int
	Version           int
	RecruitedAt       time.Time
}

func ReconstructOperative(s OperativeSnapshot) *Operative {
	return &Operative{
		id:                s.ID,
		owner:             s.Owner,
		specialization:    s.Specialization,
		skill:             s.Skill,
		status:            s.Status,
		activeMissionID:   s.ActiveMissionID,
		missionsCompleted: s.MissionsCompleted,
		version:           s.Version,
		recruitedAt:       s.RecruitedAt,
	}
}

func (o *Operative) Snapshot() OperativeSnapshot {
	return OperativeSnapshot{
		ID:                o.id,
		Owner:             o.owner,
		Specialization:    o.specialization,
		Skill:             o.skill,
		Status:            o.status,
		ActiveMissionID:   o.activeMissionID,
		MissionsCompleted: o.missionsCompleted,
		Version:           o.version,
		RecruitedAt:       o.recruitedAt,
	}
}

func (o *Operative) CheckOwner(actor shared.ActorID) error {
	if !o.owner.Equals(actor) {
		return shared.NewPreconditionError(shared.ReasonNotOwner, "actor %s does not control operative %s", actor, o.id)
	}
	return nil
}

// CheckIdle fails with OPERATIVE_BUSY while a mission is active. Actions never queue.
func (o *Operative) CheckIdle() error {
	if o.status != OperativeIdle {
		return shared.NewPreconditionError(shared.ReasonOperativeBusy,
			"operative %s is on mission %s", o.id, o.activeMissionID).
			WithDetail("mission_id", o.activeMissionID)
	}
	return nil
}

// Assign binds the operative to a new active mission
func (o *Operative) Assign(missionID string) error {
	if err := o.CheckIdle(); err != nil {
		return err
	}
	o.status = OperativeOnMission
	o.activeMissionID = missionID
	return nil
}

// Release frees the operative after a mission resolves and applies the skill change
func (o *Operative) Release(missionID string, skillDelta int) error {
	if o.status != OperativeOnMission || o.activeMissionID != missionID {
		return fmt.Errorf("operative %s is not on mission %s", o.id, missionID)
	}
	o.status = OperativeIdle
	o.activeMissionID = ""
	o.missionsCompleted++
	o.skill = clampSkill(o.skill + skillDelta)
	return nil
}

func clampSkill(skill int) int {
	if skill < MinSkill {
		return MinSkill
	}
	if skill > MaxSkill {
		return MaxSkill
	}
	return skill
}

func (o *Operative) ID() string { return o.id }
func (o *Operative) Owner() shared.ActorID { return o.owner }
func (o *Operative) Specialization() Specialization { return o.specialization }
func (o *Operative) Skill() int { return o.skill }
func (o *Operative) Status() OperativeStatus { return o.status }
func (o *Operative) ActiveMissionID() string { return o.activeMissionID }
func (o *Operative) MissionsCompleted() int { return o.missionsCompleted }
func (o *Operative) Version() int { return o.version }
func (o *Operative) RecruitedAt() time.Time { return o.recruitedAt }

// MarkPersisted advances the version after a successful conditional save
func (o *Operative) MarkPersisted() {
	o.version++
}
