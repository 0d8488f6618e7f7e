package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients
// - Meta: optional details (field, reason, component...)
// - Cause: wrapped internal error for logging
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// MetaOf returns meta[key] of a domain error, or "" for anything else.
func MetaOf(err error, key string) string {
	var de *Error
	if errors.As(err, &de) && de.Meta != nil {
		return de.Meta[key]
	}
	return ""
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrUnknownComponent(name string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "unknown component"), map[string]string{
		"field":  "component",
		"reason": "unknown component " + strconv.Quote(name),
	})
}

// PartitionReason names which partition rule a write broke.
type PartitionReason string

const (
	PartitionOverlap    PartitionReason = "overlap"
	PartitionIncomplete PartitionReason = "incomplete"
	PartitionEmptyStep  PartitionReason = "empty_step"
)

const partitionMessage = "Each component must be on exactly one of steps 2 or 3, and both steps need at least one."

func ErrPartition(reason PartitionReason) *Error {
	return WithMeta(New(KindValidation, "invalid_partition", partitionMessage), map[string]string{
		"reason": string(reason),
	})
}

// PartitionReasonOf extracts the reason from an invalid_partition error.
func PartitionReasonOf(err error) (PartitionReason, bool) {
	if !Is(err, "invalid_partition") {
		return "", false
	}
	return PartitionReason(MetaOf(err, "reason")), true
}

func ErrComponentInvalid(component Component, field, reason string) *Error {
	return WithMeta(New(KindValidation, "component_invalid", "component value is invalid"), map[string]string{
		"component": string(component),
		"field":     field,
		"reason":    reason,
	})
}

// ----------------------
// Auth errors (401)
// ----------------------

func ErrSessionMissing() *Error {
	return New(KindAuth, "session_missing", "no onboarding session; start at step 1")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrDraftNotFound() *Error {
	return New(KindNotFound, "draft_not_found", "draft not found")
}

func ErrAccountNotFound() *Error {
	return New(KindNotFound, "account_not_found", "account not found")
}

// ----------------------
// Conflict (409)
// ----------------------

// ErrStepMismatch is returned when a submit targets a step other than the
// draft's current one. got/expected are step numbers; expected is
// "completed" once step 3 is done.
func ErrStepMismatch(expected string, got Step) *Error {
	return WithMeta(New(KindConflict, "step_mismatch", "step does not match the draft's current step"), map[string]string{
		"expected": expected,
		"got":      strconv.Itoa(int(got)),
	})
}

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already registered")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrRedisUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "redis_unavailable", "cache unavailable", cause)
}

func ErrRabbitUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "rabbit_unavailable", "message broker unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "credential hashing failed", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
