package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure by how a caller is expected to react to it
type ErrorKind string

const (
	// KindValidation is bad input shape or an unknown catalog id. No state was mutated.
	KindValidation ErrorKind = "VALIDATION"
	// KindNotFound is a validation failure for a record id that does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindPrecondition is a lifecycle rule violation (wrong status, busy, insufficient balance).
	KindPrecondition ErrorKind = "PRECONDITION"
	// KindConflict means a concurrent update won the race; refetch and retry once.
	KindConflict ErrorKind = "CONFLICT"
	// KindJobFault is a scheduled handler failure, counted against the job.
	KindJobFault ErrorKind = "JOB_FAULT"
	// KindDeliveryFault is a notification delivery failure. Always swallowed after logging.
	KindDeliveryFault ErrorKind = "DELIVERY_FAULT"
)

// DomainError is the base error type for all domain errors.
// Kind tells the caller what to do, Reason tells it what happened.
type DomainError struct {
	Kind    ErrorKind
	Reason  Reason
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Is matches another DomainError carrying the same reason, so callers can write
// errors.Is(err, shared.ErrOperativeBusy).
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Reason == e.Reason && other.Message == ""
}

// Unwrap exposes the underlying failure of job and delivery faults
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches context to the error and returns it for chaining
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newDomainError(kind ErrorKind, reason Reason, format string, args ...interface{}) *DomainError {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &DomainError{Kind: kind, Reason: reason, Message: message}
}

func NewValidationError(reason Reason, format string, args ...interface{}) *DomainError {
	return newDomainError(KindValidation, reason, format, args...)
}

func NewNotFoundError(reason Reason, format string, args ...interface{}) *DomainError {
	return newDomainError(KindNotFound, reason, format, args...)
}

func NewPreconditionError(reason Reason, format string, args ...interface{}) *DomainError {
	return newDomainError(KindPrecondition, reason, format, args...)
}

// NewConflictError reports a lost conditional update on the given record
func NewConflictError(entity, id string) *DomainError {
	return newDomainError(KindConflict, ReasonConflict, "%s %s was modified concurrently", entity, id).
		WithDetail("entity", entity).
		WithDetail("id", id)
}

func NewJobFaultError(job string, cause error) *DomainError {
	err := newDomainError(KindJobFault, ReasonJobFailed, "job %s: %v", job, cause)
	err.Cause = cause
	return err
}

func NewDeliveryFaultError(eventType string, cause error) *DomainError {
	err := newDomainError(KindDeliveryFault, ReasonDeliveryFailed, "event %s: %v", eventType, cause)
	err.Cause = cause
	return err
}

// KindOf returns the kind of the first DomainError in the chain, or "" for infrastructure errors
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// ReasonOf returns the reason of the first DomainError in the chain
func ReasonOf(err error) Reason {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
