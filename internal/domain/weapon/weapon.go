package weapon

import (
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// Status is a weapon's lifecycle stage
type Status string

const (
	StatusAssembling Status = "ASSEMBLING"
	StatusReady      Status = "READY"
	StatusLaunched   Status = "LAUNCHED"
	StatusImpacted   Status = "IMPACTED"
	StatusDismantled Status = "DISMANTLED"
)

// transitions lists the only forward moves a weapon may make
var transitions = map[Status][]Status{
	StatusAssembling: {StatusReady, StatusDismantled},
	StatusReady:      {StatusLaunched, StatusDismantled},
	StatusLaunched:   {StatusImpacted},
}

// CanTransition reports whether from -> to is a legal lifecycle move
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Component is one checklist entry of the payload's assembly
type Component struct {
	ID        string `json:"id"`
	Installed bool   `json:"installed"`
}

// Weapon is a single payload moving through assembly, launch and impact.
// Status only moves forward; LAUNCHED requires every component installed.
type Weapon struct {
	id                string
	owner             shared.ActorID
	payloadType       PayloadType
	components        []Component
	status            Status
	targetID          shared.ActorID
	launchedAt        *time.Time
	impactAt          *time.Time
	impactedAt        *time.Time
	dismantledAt      *time.Time
	reservedResources int
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewWeapon creates an ASSEMBLING weapon with the payload checklist uninstalled
func NewWeapon(id string, owner shared.ActorID, spec PayloadSpec, reservedResources int, now time.Time) *Weapon {
	components := make([]Component, len(spec.Components))
	for i, c := range spec.Components {
		components[i] = Component{ID: c}
	}
	return &Weapon{
		id:                id,
		owner:             owner,
		payloadType:       spec.Type,
		components:        components,
		status:            StatusAssembling,
		reservedResources: reservedResources,
		createdAt:         now,
		updatedAt:         now,
	}
}

// WeaponSnapshot carries persisted fields for reconstruction
type WeaponSnapshot struct {
	ID                string
	Owner             shared.ActorID
	PayloadType       PayloadType
	Components        []Component
	Status            Status
	TargetID          shared.ActorID
	LaunchedAt        *time.Time
	ImpactAt          *time.Time
	ImpactedAt        *time.Time
	DismantledAt      *time.Time
	ReservedResources int
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReconstructWeapon rebuilds a weapon from persistence
func ReconstructWeapon(s WeaponSnapshot) *Weapon {
	return &Weapon{
		id:                s.ID,
		owner:             s.Owner,
		payloadType:       s.PayloadType,
		components:        append([]Component(nil), s.Components...),
		status:            s.Status,
		targetID:          s.TargetID,
		launchedAt:        s.LaunchedAt,
		impactAt:          s.ImpactAt,
		impactedAt:        s.ImpactedAt,
		dismantledAt:      s.DismantledAt,
		reservedResources: s.ReservedResources,
		version:           s.Version,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

// Snapshot exports the weapon's state for persistence
func (w *Weapon) Snapshot() WeaponSnapshot {
	return WeaponSnapshot{
		ID:                w.id,
		Owner:             w.owner,
		PayloadType:       w.payloadType,
		Components:        w.Components(),
		Status:            w.status,
		TargetID:          w.targetID,
		LaunchedAt:        w.launchedAt,
		ImpactAt:          w.impactAt,
		ImpactedAt:        w.impactedAt,
		DismantledAt:      w.dismantledAt,
		ReservedResources: w.reservedResources,
		Version:           w.version,
		CreatedAt:         w.createdAt,
		UpdatedAt:         w.updatedAt,
	}
}

// CheckOwner fails with NOT_OWNER unless actor owns the weapon
func (w *Weapon) CheckOwner(actor shared.ActorID) error {
	if !w.owner.Equals(actor) {
		return shared.NewPreconditionError(shared.ReasonNotOwner, "actor %s does not own weapon %s", actor, w.id)
	}
	return nil
}

func (w *Weapon) wrongStatus(action string) error {
	return shared.NewPreconditionError(shared.ReasonWrongStatus, "cannot %s weapon %s in %s state", action, w.id, w.status).
		WithDetail("status", string(w.status))
}

// InstallComponent marks a checklist entry installed. Installing the last one
// moves the weapon to READY; the return value reports that transition.
func (w *Weapon) InstallComponent(componentID string, actor shared.ActorID, now time.Time) (bool, error) {
	if err := w.CheckOwner(actor); err != nil {
		return false, err
	}
	if w.status != StatusAssembling {
		return false, w.wrongStatus("install components on")
	}

	idx := -1
	for i, c := range w.components {
		if c.ID == componentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, shared.NewValidationError(shared.ReasonInvalidComponent,
			"component %q is not part of the %s checklist", componentID, w.payloadType)
	}
	if w.components[idx].Installed {
		return false, shared.NewPreconditionError(shared.ReasonAlreadyInstalled, "component %q is already installed", componentID)
	}

	w.components[idx].Installed = true
	w.updatedAt = now

	if w.AllComponentsInstalled() {
		w.status = StatusReady
		return true, nil
	}
	return false, nil
}

// Launch fires a READY weapon at a validated target
func (w *Weapon) Launch(targetID shared.ActorID, actor shared.ActorID, flight time.Duration, now time.Time) error {
	if err := w.CheckOwner(actor); err != nil {
		return err
	}
	if err := w.CheckLaunchable(); err != nil {
		return err
	}
	if flight <= 0 {
		return fmt.Errorf("flight duration must be positive, got %s", flight)
	}

	launchedAt := now
	impactAt := now.Add(flight)
	w.status = StatusLaunched
	w.targetID = targetID
	w.launchedAt = &launchedAt
	w.impactAt = &impactAt
	w.updatedAt = now
	return nil
}

// CheckLaunchable fails with WRONG_STATUS unless the weapon is READY and fully assembled
func (w *Weapon) CheckLaunchable() error {
	if w.status != StatusReady || !w.AllComponentsInstalled() {
		return w.wrongStatus("launch")
	}
	return nil
}

// Dismantle scraps an unlaunched weapon and returns the resources to release
func (w *Weapon) Dismantle(actor shared.ActorID, now time.Time) (int, error) {
	if err := w.CheckOwner(actor); err != nil {
		return 0, err
	}
	if !CanTransition(w.status, StatusDismantled) {
		return 0, w.wrongStatus("dismantle")
	}

	released := w.reservedResources
	w.status = StatusDismantled
	w.reservedResources = 0
	w.dismantledAt = &now
	w.updatedAt = now
	return released, nil
}

// MarkImpacted records arrival of a LAUNCHED weapon
func (w *Weapon) MarkImpacted(now time.Time) error {
	if w.status != StatusLaunched {
		return w.wrongStatus("impact")
	}
	w.status = StatusImpacted
	w.impactedAt = &now
	w.updatedAt = now
	return nil
}

// IsDue reports whether a LAUNCHED weapon's impact time has passed
func (w *Weapon) IsDue(now time.Time) bool {
	return w.status == StatusLaunched && w.impactAt != nil && !w.impactAt.After(now)
}

func (w *Weapon) AllComponentsInstalled() bool {
	for _, c := range w.components {
		if !c.Installed {
			return false
		}
	}
	return true
}

// MissingComponents returns the ids still to install
func (w *Weapon) MissingComponents() []string {
	var missing []string
	for _, c := range w.components {
		if !c.Installed {
			missing = append(missing, c.ID)
		}
	}
	return missing
}

// Getters

func (w *Weapon) ID() string { return w.id }
func (w *Weapon) Owner() shared.ActorID { return w.owner }
func (w *Weapon) PayloadType() PayloadType { return w.payloadType }
func (w *Weapon) Status() Status { return w.status }
func (w *Weapon) TargetID() shared.ActorID { return w.targetID }
func (w *Weapon) LaunchedAt() *time.Time { return w.launchedAt }
func (w *Weapon) ImpactAt() *time.Time { return w.impactAt }
func (w *Weapon) ImpactedAt() *time.Time { return w.impactedAt }
func (w *Weapon) DismantledAt() *time.Time { return w.dismantledAt }
func (w *Weapon) ReservedResources() int { return w.reservedResources }
func (w *Weapon) Version() int { return w.version }
func (w *Weapon) CreatedAt() time.Time { return w.createdAt }
func (w *Weapon) UpdatedAt() time.Time { return w.updatedAt }

// Components returns a copy of the checklist
func (w *Weapon) Components() []Component {
	return append([]Component(nil), w.components...)
}

// MarkPersisted advances the version after a successful conditional save
func (w *Weapon) MarkPersisted() {
	w.version++
}

func (w *Weapon) String() string {
	return fmt.Sprintf("Weapon[%s, owner=%s, payload=%s, status=%s]", w.id, w.owner, w.payloadType, w.status)
}
