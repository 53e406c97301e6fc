package defense

import (
	"fmt"
	"math"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

const MaxHealth = 100

// Status is a defense unit's operating state
type Status string

const (
	StatusIdle     Status = "IDLE"
	StatusActive   Status = "ACTIVE"
	StatusCooldown Status = "COOLDOWN"
	StatusDamaged  Status = "DAMAGED"
	// StatusUpgrading is accepted from storage; no operation currently enters it
	StatusUpgrading Status = "UPGRADING"
)

// RepairPolicy holds the tunables for repair duration, cost and interception
type RepairPolicy struct {
	SecondsPerPoint int
	CostPerPoint    int
	InterceptShare  float64
	Cooldown        time.Duration
}

// DamageResult describes what one hit did to a unit
type DamageResult struct {
	Intercepted bool
	Absorbed    int
	Taken       int
}

// Unit is a defensive installation that can be damaged and repaired.
// While repairing its status is never IDLE and the completion time lies after the start.
type Unit struct {
	id                string
	owner             shared.ActorID
	health            int
	status            Status
	repairing         bool
	repairStartedAt   *time.Time
	repairCompletesAt *time.Time
	cooldownUntil     *time.Time
	version           int
	deployedAt        time.Time
	updatedAt         time.Time
}

func NewUnit(id string, owner shared.ActorID, now time.Time) *Unit {
	return &Unit{
		id:         id,
		owner:      owner,
		health:     MaxHealth,
		status:     StatusIdle,
		deployedAt: now,
		updatedAt:  now,
	}
}

// UnitSnapshot carries persisted fields for reconstruction
type UnitSnapshot struct {
	ID                string
	Owner             shared.ActorID
	Health            int
	Status            Status
	Repairing         bool
	RepairStartedAt   *time.Time
	RepairCompletesAt *time.Time
	CooldownUntil     *time.Time
	Version           int
	DeployedAt        time.Time
	UpdatedAt         time.Time
}

func ReconstructUnit(s UnitSnapshot) *Unit {
	return &Unit{
		id:                s.ID,
		owner:             s.Owner,
		health:            s.Health,
		status:            s.Status,
		repairing:         s.Repairing,
		repairStartedAt:   s.RepairStartedAt,
		repairCompletesAt: s.RepairCompletesAt,
		cooldownUntil:     s.CooldownUntil,
		version:           s.Version,
		deployedAt:        s.DeployedAt,
		updatedAt:         s.UpdatedAt,
	}
}

func (u *Unit) Snapshot() UnitSnapshot {
	return UnitSnapshot{
		ID:                u.id,
		Owner:             u.owner,
		Health:            u.health,
		Status:            u.status,
		Repairing:         u.repairing,
		RepairStartedAt:   u.repairStartedAt,
		RepairCompletesAt: u.repairCompletesAt,
		CooldownUntil:     u.cooldownUntil,
		Version:           u.version,
		DeployedAt:        u.deployedAt,
		UpdatedAt:         u.updatedAt,
	}
}

func (u *Unit) CheckOwner(actor shared.ActorID) error {
	if !u.owner.Equals(actor) {
		return shared.NewPreconditionError(shared.ReasonNotOwner, "actor %s does not own defense unit %s", actor, u.id)
	}
	return nil
}

func (u *Unit) wrongStatus(action string) error {
	return shared.NewPreconditionError(shared.ReasonWrongStatus, "cannot %s defense unit %s in %s state", action, u.id, u.status)
}

// Activate puts an IDLE unit on guard
func (u *Unit) Activate(now time.Time) error {
	if u.status != StatusIdle {
		return u.wrongStatus("activate")
	}
	u.status = StatusActive
	u.updatedAt = now
	return nil
}

// StandDown returns an ACTIVE unit to IDLE
func (u *Unit) StandDown(now time.Time) error {
	if u.status != StatusActive {
		return u.wrongStatus("stand down")
	}
	u.status = StatusIdle
	u.updatedAt = now
	return nil
}

// TakeDamage applies a hit. An ACTIVE unit intercepts first, absorbing its share
// and entering cooldown. Any health lost marks the unit DAMAGED.
func (u *Unit) TakeDamage(amount int, policy RepairPolicy, now time.Time) DamageResult {
	var result DamageResult
	if amount <= 0 {
		return result
	}

	if u.status == StatusActive {
		result.Intercepted = true
		result.Absorbed = int(math.Round(float64(amount) * policy.InterceptShare))
		amount -= result.Absorbed
		until := now.Add(policy.Cooldown)
		u.status = StatusCooldown
		u.cooldownUntil = &until
	}

	if amount > 0 {
		if amount > u.health {
			amount = u.health
		}
		u.health -= amount
		result.Taken = amount
		if !u.repairing {
			u.status = StatusDamaged
			u.cooldownUntil = nil
		}
	}

	u.updatedAt = now
	return result
}

// RepairCost is the resource price to restore the unit to full health
func (u *Unit) RepairCost(policy RepairPolicy) int {
	return (MaxHealth - u.health) * policy.CostPerPoint
}

// StartRepair begins a timed repair of a DAMAGED unit
func (u *Unit) StartRepair(policy RepairPolicy, now time.Time) error {
	if u.repairing {
		return shared.NewPreconditionError(shared.ReasonAlreadyRepairing, "defense unit %s is already being repaired", u.id)
	}
	if u.status != StatusDamaged || u.health >= MaxHealth {
		return shared.NewPreconditionError(shared.ReasonNotDamaged, "defense unit %s is not damaged", u.id)
	}
	if policy.SecondsPerPoint <= 0 {
		return fmt.Errorf("repair seconds per point must be positive")
	}

	duration := time.Duration((MaxHealth-u.health)*policy.SecondsPerPoint) * time.Second
	started := now
	completes := now.Add(duration)
	u.repairing = true
	u.repairStartedAt = &started
	u.repairCompletesAt = &completes
	u.updatedAt = now
	return nil
}

// IsRepairDue reports whether a running repair has reached its completion time
func (u *Unit) IsRepairDue(now time.Time) bool {
	return u.repairing && u.repairCompletesAt != nil && !u.repairCompletesAt.After(now)
}

// IsCooldownOver reports whether a COOLDOWN unit may return to ACTIVE
func (u *Unit) IsCooldownOver(now time.Time) bool {
	return u.status == StatusCooldown && u.cooldownUntil != nil && !u.cooldownUntil.After(now)
}

// CompleteRepair restores full health and returns the unit to IDLE
func (u *Unit) CompleteRepair(now time.Time) error {
	if !u.repairing {
		return u.wrongStatus("complete repair of")
	}
	u.health = MaxHealth
	u.repairing = false
	u.repairStartedAt = nil
	u.repairCompletesAt = nil
	u.status = StatusIdle
	u.updatedAt = now
	return nil
}

// EndCooldown returns a unit whose cooldown expired to ACTIVE
func (u *Unit) EndCooldown(now time.Time) error {
	if u.status != StatusCooldown {
		return u.wrongStatus("end cooldown of")
	}
	u.status = StatusActive
	u.cooldownUntil = nil
	u.updatedAt = now
	return nil
}

func (u *Unit) ID() string { return u.id }
func (u *Unit) Owner() shared.ActorID { return u.owner }
func (u *Unit) Health() int { return u.health }
func (u *Unit) Status() Status { return u.status }
func (u *Unit) Repairing() bool { return u.repairing }
func (u *Unit) RepairStartedAt() *time.Time { return u.repairStartedAt }
func (u *Unit) RepairCompletesAt() *time.Time { return u.repairCompletesAt }
func (u *Unit) CooldownUntil() *time.Time { return u.cooldownUntil }
func (u *Unit) Version() int { return u.version }
func (u *Unit) DeployedAt() time.Time { return u.deployedAt }
func (u *Unit) UpdatedAt() time.Time { return u.updatedAt }

// MarkPersisted advances the version after a successful conditional save
func (u *Unit) MarkPersisted() {
	u.version++
}
