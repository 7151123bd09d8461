package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrBadCredentials covers both an unknown email and a wrong password so
	// the two cases are indistinguishable to a caller.
	ErrBadCredentials = errors.New("incorrect email or password")
	// ErrEmailTaken indicates signup with an already registered email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrSessionExpired indicates a session that is past its TTL or gone.
	ErrSessionExpired = errors.New("session expired")
	// ErrCSRFMismatch indicates a state-changing request whose anti-forgery
	// token does not match the session's.
	ErrCSRFMismatch = errors.New("invalid csrf token")
)

// ValidationError reports a single rejected input field. Field names use the
// user-facing form, not struct field names.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthorizationError indicates an attempt to act on a task the actor does not
// own. It deliberately carries no task content.
type AuthorizationError struct {
	TaskID uuid.UUID
}

// NewAuthorizationError creates an AuthorizationError for the given task.
func NewAuthorizationError(taskID uuid.UUID) *AuthorizationError {
	return &AuthorizationError{TaskID: taskID}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("task %s is owned by another user", e.TaskID)
}
