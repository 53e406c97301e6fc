// Package targeting decides whether a launch at a given target is permitted.
//
// Target existence short-circuits. Every other rule is evaluated independently
// and all violations are returned so a caller can report them at once.
package targeting

import (
	"context"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// ViolationCode identifies a failed targeting rule
type ViolationCode string

const (
	ViolationTargetNotFound   ViolationCode = "TARGET_NOT_FOUND"
	ViolationLauncherNotFound ViolationCode = "LAUNCHER_NOT_FOUND"
	ViolationUnknownPayload   ViolationCode = "UNKNOWN_PAYLOAD"
	ViolationSelfTarget       ViolationCode = "SELF_TARGET"
	ViolationProtected        ViolationCode = "TARGET_PROTECTED"
	ViolationLevelTooLow      ViolationCode = "TARGET_LEVEL_TOO_LOW"
	ViolationFriendlyFire     ViolationCode = "FRIENDLY_FIRE"
	ViolationOutOfRange       ViolationCode = "OUT_OF_RANGE"
)

// Violation is one failed rule with a human readable message
type Violation struct {
	Code    ViolationCode
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// ValidationResult is the validator's verdict
type ValidationResult struct {
	Valid      bool
	Violations []Violation
}

// Errors returns every violation rendered as a string
func (r ValidationResult) Errors() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.String()
	}
	return out
}

// Has reports whether a violation with the given code was collected
func (r ValidationResult) Has(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// AsError converts an invalid result into a TARGET_INVALID precondition failure
// carrying the first violation as its message and all of them as details.
func (r ValidationResult) AsError() error {
	if r.Valid {
		return nil
	}
	return shared.NewPreconditionError(shared.ReasonTargetInvalid, "%s", r.Violations[0].String()).
		WithDetail("violations", r.Errors())
}

// Rules are the tunable inputs to Evaluate
type Rules struct {
	MinTargetLevel int
	Ranges         map[weapon.PayloadType]float64
}

// Evaluate applies every rule to already-resolved profiles. It performs no I/O.
// A nil target short-circuits with TARGET_NOT_FOUND.
func Evaluate(launcher, target *actor.Actor, targetID shared.ActorID, payloadType weapon.PayloadType, rules Rules, now time.Time) ValidationResult {
	if target == nil {
		return ValidationResult{Violations: []Violation{{
			Code:    ViolationTargetNotFound,
			Message: fmt.Sprintf("target %s does not exist", targetID),
		}}}
	}

	var violations []Violation
	add := func(code ViolationCode, format string, args ...interface{}) {
		violations = append(violations, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if launcher == nil {
		add(ViolationLauncherNotFound, "launcher does not exist")
	} else if launcher.ID.Equals(target.ID) {
		add(ViolationSelfTarget, "cannot target yourself")
	}

	if target.IsProtected(now) {
		add(ViolationProtected, "target %s is protected until %s", target.ID, target.ProtectedUntil.Format(time.RFC3339))
	}

	if target.Level < rules.MinTargetLevel {
		add(ViolationLevelTooLow, "target level %d is below the minimum of %d", target.Level, rules.MinTargetLevel)
	}

	if launcher != nil && !launcher.ID.Equals(target.ID) && launcher.SharesGroupWith(target) {
		add(ViolationFriendlyFire, "target %s belongs to your group %s", target.ID, target.GroupID)
	}

	maxRange, known := rules.Ranges[payloadType]
	if !known {
		add(ViolationUnknownPayload, "no range defined for payload %s", payloadType)
	} else if launcher != nil {
		if distance := launcher.Position.DistanceTo(target.Position); distance > maxRange {
			add(ViolationOutOfRange, "target is %.1f away, %s reaches %.1f", distance, payloadType, maxRange)
		}
	}

	return ValidationResult{Valid: len(violations) == 0, Violations: violations}
}

// Directory resolves actor profiles for targeting. A missing actor is (nil, nil).
type Directory interface {
	Profile(ctx context.Context, id shared.ActorID) (*actor.Actor, error)
}

// Validator looks up both profiles and evaluates the rules
type Validator struct {
	directory Directory
	rules     Rules
	clock     shared.Clock
}

func NewValidator(directory Directory, rules Rules, clock shared.Clock) *Validator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Validator{directory: directory, rules: rules, clock: clock}
}

// Validate checks a launch from launcherID at targetID with the given payload.
// The error return is reserved for directory failures.
func (v *Validator) Validate(ctx context.Context, launcherID, targetID shared.ActorID, payloadType weapon.PayloadType) (ValidationResult, error) {
	target, err := v.directory.Profile(ctx, targetID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to look up target %s: %w", targetID, err)
	}
	if target == nil {
		return Evaluate(nil, nil, targetID, payloadType, v.rules, v.clock.Now()), nil
	}

	launcher, err := v.directory.Profile(ctx, launcherID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to look up launcher %s: %w", launcherID, err)
	}

	return Evaluate(launcher, target, targetID, payloadType, v.rules, v.clock.Now()), nil
}
