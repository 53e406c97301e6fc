package shared

// Reason is the machine-readable failure code returned to callers
type Reason string

func (r Reason) String() string {
	return string(r)
}

// Validation reasons
const (
	ReasonInvalidArgument       Reason = "INVALID_ARGUMENT"
	ReasonUnknownTech           Reason = "UNKNOWN_TECH"
	ReasonUnknownPayloadType    Reason = "UNKNOWN_PAYLOAD_TYPE"
	ReasonInvalidComponent      Reason = "INVALID_COMPONENT"
	ReasonUnknownMissionType    Reason = "UNKNOWN_MISSION_TYPE"
	ReasonUnknownSpecialization Reason = "UNKNOWN_SPECIALIZATION"
)

// Not-found reasons
const (
	ReasonActorNotFound       Reason = "ACTOR_NOT_FOUND"
	ReasonWeaponNotFound      Reason = "WEAPON_NOT_FOUND"
	ReasonOperativeNotFound   Reason = "OPERATIVE_NOT_FOUND"
	ReasonMissionNotFound     Reason = "MISSION_NOT_FOUND"
	ReasonDefenseUnitNotFound Reason = "DEFENSE_UNIT_NOT_FOUND"
	ReasonJobNotFound         Reason = "JOB_NOT_FOUND"
)

// Precondition reasons
const (
	ReasonPrerequisiteUnmet        Reason = "PREREQUISITE_UNMET"
	ReasonAlreadyCompleted         Reason = "ALREADY_COMPLETED"
	ReasonAlreadyInProgress        Reason = "ALREADY_IN_PROGRESS"
	ReasonConcurrentResearchActive Reason = "CONCURRENT_RESEARCH_ACTIVE"
	ReasonInsufficientPoints       Reason = "INSUFFICIENT_POINTS"
	ReasonInsufficientResources    Reason = "INSUFFICIENT_RESOURCES"
	ReasonActorLevelTooLow         Reason = "ACTOR_LEVEL_TOO_LOW"
	ReasonGroupLevelTooLow         Reason = "GROUP_LEVEL_TOO_LOW"
	ReasonNoActiveResearch         Reason = "NO_ACTIVE_RESEARCH"
	ReasonTechLocked               Reason = "TECH_LOCKED"
	ReasonAlreadyInstalled         Reason = "ALREADY_INSTALLED"
	ReasonNotOwner                 Reason = "NOT_OWNER"
	ReasonWrongStatus              Reason = "WRONG_STATUS"
	ReasonTargetInvalid            Reason = "TARGET_INVALID"
	ReasonOperativeBusy            Reason = "OPERATIVE_BUSY"
	ReasonOperativeCapReached      Reason = "OPERATIVE_CAP_REACHED"
	ReasonSelfTarget               Reason = "SELF_TARGET"
	ReasonMissionNotDue            Reason = "MISSION_NOT_DUE"
	ReasonNotDamaged               Reason = "NOT_DAMAGED"
	ReasonAlreadyRepairing         Reason = "ALREADY_REPAIRING"
	ReasonJobRunning               Reason = "JOB_RUNNING"
)

// Conflict and fault reasons
const (
	ReasonConflict       Reason = "CONFLICT"
	ReasonJobFailed      Reason = "JOB_FAILED"
	ReasonDeliveryFailed Reason = "DELIVERY_FAILED"
)

// Sentinels for errors.Is comparisons. They carry no message and match any
// DomainError with the same reason.
var (
	ErrPrerequisiteUnmet        = &DomainError{Kind: KindPrecondition, Reason: ReasonPrerequisiteUnmet}
	ErrConcurrentResearchActive = &DomainError{Kind: KindPrecondition, Reason: ReasonConcurrentResearchActive}
	ErrInsufficientPoints       = &DomainError{Kind: KindPrecondition, Reason: ReasonInsufficientPoints}
	ErrInsufficientResources    = &DomainError{Kind: KindPrecondition, Reason: ReasonInsufficientResources}
	ErrWrongStatus              = &DomainError{Kind: KindPrecondition, Reason: ReasonWrongStatus}
	ErrOperativeBusy            = &DomainError{Kind: KindPrecondition, Reason: ReasonOperativeBusy}
	ErrJobRunning               = &DomainError{Kind: KindPrecondition, Reason: ReasonJobRunning}
	ErrConflict                 = &DomainError{Kind: KindConflict, Reason: ReasonConflict}
)
